package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/audit"
	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/database"
	"github.com/mrlokans/kosync/internal/database/settings"
	"github.com/mrlokans/kosync/internal/database/sync"
	"github.com/mrlokans/kosync/internal/database/users"
	"github.com/mrlokans/kosync/internal/http"
	"github.com/mrlokans/kosync/internal/progress"
	"github.com/mrlokans/kosync/internal/scheduler"
	"github.com/mrlokans/kosync/internal/settingsstore"
	"github.com/mrlokans/kosync/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserStore implementations
var _ accounts.UserStore = (*users.Repository)(nil)
var _ auth.UserLookup = (*users.Repository)(nil)

// Progress records
var _ progress.Ledger = (*sync.Repository)(nil)
var _ accounts.DocumentLister = (*sync.Repository)(nil)

// Settings
var _ settingsstore.Repository = (*settings.Repository)(nil)
var _ accounts.RegistrationGate = (*settingsstore.SettingsStore)(nil)
var _ http.SettingsStore = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// Credentials
// =============================================================================

// KeyStore implementations
var _ auth.KeyStore = auth.PlainKeys{}
var _ auth.KeyStore = auth.BcryptKeys{}
var _ database.KeySealer = auth.KeyStore(nil)

// =============================================================================
// Health Checks
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.ContextPinger = (*tasks.Client)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
var _ tasks.AuditPruner = (*audit.Service)(nil)
