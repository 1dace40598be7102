package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/entities"
	"github.com/mrlokans/kosync/internal/progress"
)

// SyncsController serves the progress push and pull endpoints.
type SyncsController struct {
	progress *progress.Service
}

func NewSyncsController(progressService *progress.Service) *SyncsController {
	return &SyncsController{progress: progressService}
}

type progressRequest struct {
	Document   string  `json:"document"`
	Progress   string  `json:"progress"`
	Percentage float64 `json:"percentage"`
	Device     string  `json:"device"`
	DeviceID   string  `json:"device_id"`
}

type PushResponse struct {
	Document  string    `json:"document"`
	Timestamp time.Time `json:"timestamp"`
}

// PullResponse field order and the integer timestamp are what KOReader expects.
type PullResponse struct {
	Device     string  `json:"device"`
	DeviceID   string  `json:"device_id"`
	Document   string  `json:"document"`
	Percentage float64 `json:"percentage"`
	Progress   string  `json:"progress"`
	Timestamp  int64   `json:"timestamp"`
}

// Push handles PUT /syncs/progress
func (sc *SyncsController) Push(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	doc, err := sc.progress.Push(auth.GetIdentity(c), entities.ProgressUpdate{
		DocumentHash: req.Document,
		Progress:     req.Progress,
		Percentage:   req.Percentage,
		Device:       req.Device,
		DeviceID:     req.DeviceID,
	})
	switch {
	case err == nil:
	case errors.Is(err, progress.ErrUnauthorized):
		respondUnauthorized(c)
		return
	case errors.Is(err, progress.ErrDocumentRequired):
		respondBadRequest(c, "Document is required")
		return
	default:
		respondInternalError(c, err, "push progress")
		return
	}

	c.JSON(http.StatusOK, PushResponse{
		Document:  doc.DocumentHash,
		Timestamp: doc.Timestamp,
	})
}

// Pull handles GET /syncs/progress/:document
func (sc *SyncsController) Pull(c *gin.Context) {
	doc, err := sc.progress.Pull(auth.GetIdentity(c), c.Param("document"))
	switch {
	case err == nil:
	case errors.Is(err, progress.ErrUnauthorized):
		respondUnauthorized(c)
		return
	case errors.Is(err, progress.ErrDocumentNotFound):
		// 502, not 404, is part of the client contract
		respondMessage(c, http.StatusBadGateway, "Document not found")
		return
	default:
		respondInternalError(c, err, "pull progress")
		return
	}

	c.JSON(http.StatusOK, PullResponse{
		Device:     doc.Device,
		DeviceID:   doc.DeviceID,
		Document:   doc.DocumentHash,
		Percentage: doc.Percentage,
		Progress:   doc.Progress,
		Timestamp:  doc.Timestamp.Unix(),
	})
}
