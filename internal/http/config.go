package http

import (
	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/audit"
	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/progress"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core services
	Accounts *accounts.Service
	Progress *progress.Service
	Settings SettingsStore

	// Authentication
	Authenticator *auth.Authenticator
	RateLimiter   *auth.RateLimiter // nil disables /users/auth throttling

	// Audit trail (nil disables)
	AuditService *audit.Service

	// Health checks
	Database Pinger
	Tasks    ContextPinger // nil when the task queue is disabled

	// Comma separated TRUSTED_PROXIES entries
	TrustedProxies []string

	// Application info
	Version string
}
