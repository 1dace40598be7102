// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── bootstrap.go     # Admin account and settings seeding
//	├── users/           # Account records (credential store)
//	├── sync/            # Per-account reading progress (progress ledger)
//	├── settings/        # Process-wide key/value settings
//	└── audit/           # Audit trail of administrative actions
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	usersRepo := users.NewRepository(db.DB)
//	progressRepo := sync.NewRepository(db.DB)
//
//	user, err := usersRepo.GetUserByUsername("alice")
//	doc, err := progressRepo.GetProgress(user.ID, "abc123")
//
// Repositories return gorm errors unchanged (gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey); translating them into domain errors is the job of
// the services that consume them.
//
// # Ownership
//
// Documents belong to exactly one user and are only reachable through that
// user's ID. Deleting a user removes its documents in the same transaction.
package database
