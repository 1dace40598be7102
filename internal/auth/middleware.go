package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Credential headers sent by KOReader-compatible clients.
const (
	HeaderUser = "x-auth-user"
	HeaderKey  = "x-auth-key"
)

// ContextKeyIdentity holds the request's Identity in the gin context.
const ContextKeyIdentity = "auth_identity"

// Middleware resolves request credentials into an Identity.
type Middleware struct {
	authenticator *Authenticator
}

func NewMiddleware(authenticator *Authenticator) *Middleware {
	return &Middleware{authenticator: authenticator}
}

// Handler returns a Gin middleware that authenticates every request exactly
// once. Requests without credentials continue as Anonymous.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader(HeaderUser)
		key := c.GetHeader(HeaderKey)

		if username == "" && key == "" {
			c.Set(ContextKeyIdentity, Anonymous)
			c.Next()
			return
		}

		identity, err := m.authenticator.Authenticate(username, key)
		if err != nil {
			log.Printf("[%s] Authentication lookup failed: %v", c.ClientIP(), err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// RequireActive aborts with 401 unless the caller is authenticated and active.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).CanSync() {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless the caller is an active administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).CanManage() {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Unauthorized",
	})
}

// GetIdentity returns the Identity resolved for this request, or Anonymous
// when the middleware did not run.
func GetIdentity(c *gin.Context) Identity {
	if value, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := value.(Identity); ok {
			return identity
		}
	}
	return Anonymous
}
