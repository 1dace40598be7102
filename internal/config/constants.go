package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./data/kosync.db"

	// DefaultAdminPassword is used when ADMIN_PASSWORD is not set
	DefaultAdminPassword = "admin"
)
