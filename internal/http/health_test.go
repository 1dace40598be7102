package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping() error { return p.err }

type stubContextPinger struct{ err error }

func (p stubContextPinger) Ping(context.Context) error { return p.err }

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		_, db := setupTestRouter(t)

		code, response := getHealth(t, NewHealthController(db, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "disabled", response.Checks["tasks"])
		assert.NotEmpty(t, response.Time)
	})

	t.Run("returns unhealthy when database is nil", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, nil, ""))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when ping fails", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(stubPinger{err: errors.New("gone")}, nil, ""))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "gone")
	})

	t.Run("reports task queue", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(stubPinger{}, stubContextPinger{}, ""))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", response.Checks["tasks"])

		code, response = getHealth(t, NewHealthController(stubPinger{}, stubContextPinger{err: errors.New("locked")}, ""))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, response.Checks["tasks"], "locked")
	})
}
