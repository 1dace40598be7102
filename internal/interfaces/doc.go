// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors find
// extension points and see which concrete types satisfy them.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - accounts.UserStore: account records (internal/accounts/interfaces.go)
//   - accounts.DocumentLister: per-account progress listing
//   - progress.Ledger: progress push/pull storage (internal/progress/service.go)
//   - settingsstore.Repository: key/value settings persistence
//   - auth.UserLookup: credential lookup for header authentication
//
// ## Credential Interfaces
//
//   - auth.KeyStore: how the client's key digest is stored (plain or bcrypt)
//   - database.KeySealer: the subset of KeyStore the bootstrap step needs
//
// ## HTTP Dependencies
//
//   - http.SettingsStore: settings view for /manage/settings and /public/settings
//   - http.Pinger, http.ContextPinger: health check pings
//
// ## Background Work
//
//   - scheduler.TaskEnqueuer: enqueues backlite tasks (tasks.Client)
//   - tasks.AuditPruner: prunes audit events (audit.Service)
//
// # Adding a New Key Storage Mode
//
//  1. Implement auth.KeyStore in internal/auth/password.go
//
//     type Argon2Keys struct{ ... }
//
//     func (k Argon2Keys) Seal(digest string) (string, error)
//     func (k Argon2Keys) Match(stored, digest string) bool
//
//  2. Add a config.KeyStorage value and select it in auth.NewKeyStore
//
//  3. Add a compile-time check to checks.go
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Register the entity in database.Open's AutoMigrate list
//
//  4. Add compile-time check:
//
//     var _ SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
