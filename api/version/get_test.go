package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/api/types"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		deps            *types.Dependencies
		expectedVersion string
	}{
		{name: "build version", deps: &types.Dependencies{Version: "1.4.2"}, expectedVersion: "1.4.2"},
		{name: "no version set", deps: &types.Dependencies{}, expectedVersion: "dev"},
		{name: "nil dependencies", deps: nil, expectedVersion: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterRoutes(router, tt.deps)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "Mask Editor API", response["name"])
			assert.Equal(t, tt.expectedVersion, response["version"])
			assert.Equal(t, "running", response["status"])
		})
	}
}
