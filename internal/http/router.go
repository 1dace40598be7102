package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kosync/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	logger, err := NewRequestLogger(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	router.Use(RequestIDMiddleware())
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	// Credentials are resolved once per request, before any handler runs
	router.Use(auth.NewMiddleware(cfg.Authenticator).Handler())

	health := NewHealthController(cfg.Database, cfg.Tasks, cfg.Version)
	public := NewPublicController(cfg.Settings)
	users := NewUsersController(cfg.Accounts, cfg.AuditService, logger)
	syncs := NewSyncsController(cfg.Progress)
	manage := NewManageController(cfg.Accounts, cfg.Settings, cfg.AuditService, logger)

	// Public endpoints
	router.GET("/", public.Index)
	router.GET("/healthcheck", health.Healthcheck)
	router.GET("/health", health.Status)
	router.GET("/public/settings", public.Settings)

	// KOReader user endpoints
	authHandlers := []gin.HandlerFunc{users.Authorize}
	if cfg.RateLimiter != nil {
		authHandlers = append([]gin.HandlerFunc{cfg.RateLimiter.Middleware()}, authHandlers...)
	}
	router.GET("/users/auth", authHandlers...)
	router.POST("/users/create", users.Register)

	self := router.Group("/users", auth.RequireActive())
	self.GET("/profile", users.GetProfile)
	self.PUT("/profile", users.UpdateProfile)
	self.PUT("/password", users.UpdatePassword)

	// Progress sync
	sync := router.Group("/syncs", auth.RequireActive())
	sync.PUT("/progress", syncs.Push)
	sync.GET("/progress/:document", syncs.Pull)

	// Management; delete and document listing also serve the account owner
	router.DELETE("/manage/users", auth.RequireActive(), manage.DeleteUser)
	router.GET("/manage/users/documents", auth.RequireActive(), manage.ListDocuments)

	admin := router.Group("/manage", auth.RequireAdmin())
	admin.GET("/settings", manage.GetSettings)
	admin.PUT("/settings", manage.UpdateSettings)
	admin.GET("/users", manage.ListUsers)
	admin.POST("/users", manage.CreateUser)
	admin.PUT("/users/active", manage.ToggleActive)
	admin.PUT("/users/password", manage.ResetPassword)
	admin.GET("/audit", manage.ListAudit)

	return router, nil
}
