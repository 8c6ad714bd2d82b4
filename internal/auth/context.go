package auth

import (
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the per-request identity supplied by the external
// authenticator. Session validation happens upstream; this service only
// consumes the resolved (user, role) pair.
type Principal struct {
	UserID string
	Role   string
}

// IsManager reports whether the role may pass the approve gate.
func (p Principal) IsManager() bool {
	return p.Role == "manager" || p.Role == "admin"
}

// Middleware lifts the authenticated identity from request headers into the
// gin context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID != "" {
			c.Set(principalKey, Principal{
				UserID: userID,
				Role:   c.GetHeader("X-User-Role"),
			})
		}
		c.Next()
	}
}

// FromContext returns the request principal, if any.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
