package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/internal/database"
	"github.com/killallgit/mask-editor-api/internal/models"
)

func setupTestRepository(t *testing.T) (Repository, *database.DB) {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewRepository(db.DB), db
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepository(t)

	job := &models.Job{
		Type:      models.JobTypeWatermarkRemoval,
		Status:    models.JobStatusPending,
		SessionID: "s1",
		Payload:   models.JobPayload{"video_url": "https://example.com/v.mp4"},
	}
	require.NoError(t, repo.CreateJob(ctx, job))
	require.NotZero(t, job.ID)

	got, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	url, ok := got.GetPayloadString("video_url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/v.mp4", url)

	_, err = repo.GetJob(ctx, 9999)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRepository_ListJobs(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepository(t)

	seed := []*models.Job{
		{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusPending, CreatedBy: "alice", SessionID: "s1"},
		{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusCompleted, CreatedBy: "alice", SessionID: "s2"},
		{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusPending, CreatedBy: "bob", SessionID: "s3"},
	}
	for _, j := range seed {
		require.NoError(t, repo.CreateJob(ctx, j))
	}

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []uint
	}{
		{name: "all newest first", filter: ListFilter{}, wantIDs: []uint{seed[2].ID, seed[1].ID, seed[0].ID}},
		{name: "by owner", filter: ListFilter{CreatedBy: "alice"}, wantIDs: []uint{seed[1].ID, seed[0].ID}},
		{name: "by status", filter: ListFilter{Status: models.JobStatusPending}, wantIDs: []uint{seed[2].ID, seed[0].ID}},
		{name: "by session", filter: ListFilter{SessionID: "s2"}, wantIDs: []uint{seed[1].ID}},
		{name: "limited", filter: ListFilter{Limit: 1}, wantIDs: []uint{seed[2].ID}},
		{name: "no match", filter: ListFilter{CreatedBy: "carol"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := repo.ListJobs(ctx, tt.filter)
			require.NoError(t, err)
			var ids []uint
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRepository_DeleteOldJobs(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestRepository(t)

	old := &models.Job{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusCompleted}
	oldPending := &models.Job{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusPending}
	fresh := &models.Job{Type: models.JobTypeWatermarkRemoval, Status: models.JobStatusCompleted}
	for _, j := range []*models.Job{old, oldPending, fresh} {
		require.NoError(t, repo.CreateJob(ctx, j))
	}
	past := time.Now().UTC().AddDate(0, 0, -30)
	require.NoError(t, db.DB.Model(&models.Job{}).Where("id IN ?", []uint{old.ID, oldPending.ID}).
		UpdateColumn("updated_at", past).Error)

	deleted, err := repo.DeleteOldJobs(ctx, time.Now().UTC().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetJob(ctx, old.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = repo.GetJob(ctx, oldPending.ID)
	assert.NoError(t, err)
	_, err = repo.GetJob(ctx, fresh.ID)
	assert.NoError(t, err)
}
