package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

// KeyStorage selects how the client's credential digest is persisted.
type KeyStorage string

const (
	KeyStoragePlain  KeyStorage = "plain"  // digest stored verbatim (kosync compatible)
	KeyStorageBcrypt KeyStorage = "bcrypt" // bcrypt over the digest
)

type (
	Config struct {
		HTTP
		Global
		Database
		Bootstrap
		Auth
		Audit
		Tasks
	}

	HTTP struct {
		Port           int32
		Host           string
		TrustedProxies []string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Driver   DatabaseDriver
		Path     string
		DSN      string
		LogLevel string // silent, error, warn, info
	}

	// Bootstrap values are applied once at startup; the settings they seed
	// are afterwards owned by the settings table.
	Bootstrap struct {
		AdminPassword        string
		RegistrationDisabled bool
		AdminEmail           string
	}

	Auth struct {
		KeyStorage KeyStorage
		BcryptCost int

		// SelfMatchIgnoreCase makes "is this my own account" checks on
		// /manage/users and /manage/users/documents case-insensitive.
		SelfMatchIgnoreCase bool

		// Rate limiting for /users/auth; MaxFailedAttempts <= 0 disables it
		MaxFailedAttempts int
		RateLimitWindow   time.Duration
		LockoutDuration   time.Duration
	}

	Audit struct {
		Enabled         bool
		RetentionDays   int
		CleanupSchedule string // Cron format: "0 3 * * *" = nightly at 03:00
	}

	Tasks struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// loadEnvFile loads variables from a dotenv file without overriding the
// process environment. A missing file is not an error.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("WARNING: failed to load env file %s: %v", path, err)
	}
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewConfig() *Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	loadEnvFile(envFile)

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	// Bootstrap defaults
	v.SetDefault("admin_password", DefaultAdminPassword)
	v.SetDefault("registration_disabled", false)
	v.SetDefault("admin_email", "")

	// Auth defaults
	v.SetDefault("auth_key_storage", string(KeyStoragePlain))
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_self_match_ignore_case", false)
	v.SetDefault("auth_max_failed_attempts", 10)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Bootstrap: Bootstrap{
			AdminPassword:        v.GetString("ADMIN_PASSWORD"),
			RegistrationDisabled: strings.EqualFold(v.GetString("REGISTRATION_DISABLED"), "true"),
			AdminEmail:           v.GetString("ADMIN_EMAIL"),
		},
		Auth: Auth{
			KeyStorage:          KeyStorage(strings.ToLower(v.GetString("AUTH_KEY_STORAGE"))),
			BcryptCost:          v.GetInt("AUTH_BCRYPT_COST"),
			SelfMatchIgnoreCase: v.GetBool("AUTH_SELF_MATCH_IGNORE_CASE"),
			MaxFailedAttempts:   v.GetInt("AUTH_MAX_FAILED_ATTEMPTS"),
			RateLimitWindow:     v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:     v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
