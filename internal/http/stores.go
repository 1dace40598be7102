package http

import "context"

// SettingsStore is the runtime settings view used by the management and
// public endpoints.
type SettingsStore interface {
	All() (map[string]string, error)
	Update(values map[string]string) error
	AdminEmail() (string, error)
}

// Pinger reports whether the main database is reachable.
type Pinger interface {
	Ping() error
}

// ContextPinger reports whether an optional dependency is reachable.
type ContextPinger interface {
	Ping(ctx context.Context) error
}
