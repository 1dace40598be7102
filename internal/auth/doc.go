// Package auth verifies the credentials KOReader-style clients send with
// every request.
//
// There are no sessions or tokens. Each request carries two headers:
//
//	x-auth-user: <username>
//	x-auth-key:  <md5 hex digest of the password>
//
// The Middleware resolves them once at request entry into an immutable
// Identity stored on the gin context. Handlers and services read that value;
// nothing re-queries the store during the same request.
//
// # Key storage
//
// AUTH_KEY_STORAGE selects how the digest is persisted:
//
//	AUTH_KEY_STORAGE=plain   # digest stored verbatim, compared in constant time
//	AUTH_KEY_STORAGE=bcrypt  # bcrypt over the digest (AUTH_BCRYPT_COST)
//
// # Usage
//
//	keys, _ := auth.NewKeyStore(cfg.Auth)
//	authenticator := auth.NewAuthenticator(userRepo, keys)
//	router.Use(auth.NewMiddleware(authenticator).Handler())
//
//	identity := auth.GetIdentity(c)
package auth
