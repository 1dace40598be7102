package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicController serves unauthenticated informational endpoints.
type PublicController struct {
	settings SettingsStore
}

func NewPublicController(settings SettingsStore) *PublicController {
	return &PublicController{settings: settings}
}

type PublicSettingsResponse struct {
	AdminEmail string `json:"adminEmail"`
}

// Index handles GET /
func (pc *PublicController) Index(c *gin.Context) {
	c.String(http.StatusOK, "kosync server is running.")
}

// Settings handles GET /public/settings
func (pc *PublicController) Settings(c *gin.Context) {
	email, err := pc.settings.AdminEmail()
	if err != nil {
		respondInternalError(c, err, "public settings")
		return
	}
	c.JSON(http.StatusOK, PublicSettingsResponse{AdminEmail: email})
}
