package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apiauth "github.com/killallgit/mask-editor-api/api/auth"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/models"
	jobsvc "github.com/killallgit/mask-editor-api/internal/services/jobs"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
)

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...jobsvc.JobOption) (*models.Job, error) {
	args := m.Called(ctx, jobType, payload)
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) EnqueueMaskJob(ctx context.Context, req jobsvc.MaskJobRequest, opts ...jobsvc.JobOption) (*models.Job, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, filter jobsvc.ListFilter) ([]*models.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *MockJobService) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

// setupTestRouter mounts the job routes; a non-empty user simulates the auth middleware
func setupTestRouter(svc *MockJobService, user string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/jobs")
	if user != "" {
		group.Use(func(c *gin.Context) {
			c.Set(apiauth.ContextUserID, user)
			c.Next()
		})
	}
	RegisterRoutes(group, &types.Dependencies{JobService: svc})
	return router
}

func serve(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGet(t *testing.T) {
	job := &models.Job{Model: gorm.Model{ID: 7}, Type: models.JobTypeWatermarkRemoval, SessionID: "s1", MaskCount: 2, CreatedBy: "alice"}

	tests := []struct {
		name       string
		user       string
		path       string
		setup      func(m *MockJobService)
		wantStatus int
	}{
		{
			name:       "found",
			path:       "/api/v1/jobs/7",
			setup:      func(m *MockJobService) { m.On("GetJob", mock.Anything, uint(7)).Return(job, nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "owner sees own job",
			user:       "alice",
			path:       "/api/v1/jobs/7",
			setup:      func(m *MockJobService) { m.On("GetJob", mock.Anything, uint(7)).Return(job, nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "other user gets not found",
			user:       "bob",
			path:       "/api/v1/jobs/7",
			setup:      func(m *MockJobService) { m.On("GetJob", mock.Anything, uint(7)).Return(job, nil) },
			wantStatus: http.StatusNotFound,
		},
		{
			name: "missing",
			path: "/api/v1/jobs/8",
			setup: func(m *MockJobService) {
				m.On("GetJob", mock.Anything, uint(8)).Return(nil, apperrors.NotFound("job", 8))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			path:       "/api/v1/jobs/abc",
			setup:      func(m *MockJobService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJobService)
			tt.setup(svc)

			w := serve(setupTestRouter(svc, tt.user), tt.path)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				var resp types.JobResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, uint(7), resp.Job.ID)
				assert.Equal(t, 2, resp.Job.MaskCount)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestList(t *testing.T) {
	listed := []*models.Job{{Model: gorm.Model{ID: 2}}, {Model: gorm.Model{ID: 1}}}

	tests := []struct {
		name       string
		user       string
		query      string
		wantFilter *jobsvc.ListFilter
		wantStatus int
	}{
		{
			name:       "no filters",
			wantFilter: &jobsvc.ListFilter{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "filters and owner",
			user:       "alice",
			query:      "?session_id=s1&status=pending&limit=500",
			wantFilter: &jobsvc.ListFilter{CreatedBy: "alice", SessionID: "s1", Status: models.JobStatusPending, Limit: 200},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad limit",
			query:      "?limit=-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad status",
			query:      "?status=exploded",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJobService)
			if tt.wantFilter != nil {
				svc.On("ListJobs", mock.Anything, *tt.wantFilter).Return(listed, nil)
			}

			w := serve(setupTestRouter(svc, tt.user), "/api/v1/jobs"+tt.query)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				var resp types.JobsResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, 2, resp.Count)
				assert.Equal(t, uint(2), resp.Jobs[0].ID)
			}
			svc.AssertExpectations(t)
		})
	}
}
