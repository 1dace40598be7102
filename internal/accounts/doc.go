// Package accounts implements account management, public registration and
// the self-service profile and password operations.
//
// Every operation takes the caller's auth.Identity explicitly. Permission
// failures are returned as ErrUnauthorized; the HTTP layer owns the mapping
// of each sentinel to its per-endpoint status code.
package accounts
