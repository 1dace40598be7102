package auth

// Identity is the result of verifying one request's credentials.
// It is computed once at request entry and never mutated afterwards.
type Identity struct {
	UserID        uint
	Username      string // presented username, echoed even when verification fails
	Authenticated bool
	Active        bool
	Admin         bool
}

// Anonymous is the identity of a request without credentials.
var Anonymous = Identity{}

// CanSync reports whether the caller may use the gated user and sync endpoints.
func (i Identity) CanSync() bool {
	return i.Authenticated && i.Active
}

// CanManage reports whether the caller may run administrative operations.
func (i Identity) CanManage() bool {
	return i.Authenticated && i.Active && i.Admin
}
