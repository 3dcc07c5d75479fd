package api

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the static operator key
const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards operator routes with a shared key. The caller-supplied
// actor id, when present, is stored on the context for audit rows.
func AdminKey(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			ForbiddenResponse(c, "Access Denied: admin access is not configured")
			c.Abort()
			return
		}

		supplied := strings.TrimSpace(c.GetHeader(AdminKeyHeader))
		if supplied == "" {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(supplied), expected) != 1 {
			ForbiddenResponse(c, "Access Denied: invalid admin key")
			c.Abort()
			return
		}

		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Set(ActorContextKey, actor)
		}
		c.Next()
	}
}

// ActorHeader optionally identifies the operator behind an admin request
const ActorHeader = "X-Actor-ID"

// ActorContextKey is the gin context key holding the actor id
const ActorContextKey = "actor_id"
