package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      Pinger
	tasks   ContextPinger
	version string
}

// NewHealthController creates the health endpoints. tasks may be nil when
// the background queue is disabled.
func NewHealthController(db Pinger, tasks ContextPinger, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   tasks,
		version: version,
	}
}

// Healthcheck handles GET /healthcheck, the liveness check KOReader tooling expects.
func (h *HealthController) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": "OK"})
}

// Status handles GET /health with per-dependency checks.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
		status = "unhealthy"
	}

	if h.tasks != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.tasks.Ping(ctx); err != nil {
			checks["tasks"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["tasks"] = "ok"
		}
	} else {
		checks["tasks"] = "disabled"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
