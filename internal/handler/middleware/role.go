package middleware

import (
	"log/slog"
	"net/http"

	"unihaven/internal/domain/principal"
	"unihaven/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const ctxPrincipalKey = "principal"

// RoleMiddleware resolves the caller's role token into a Principal. The token
// travels in the X-Role header, with a role query parameter fallback for
// browser-addressable GETs. Any resolution failure is a 401; there is no
// anonymous principal.
type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

func (m *RoleMiddleware) RequireRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Role")
		if token == "" {
			token = c.Query("role")
		}
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				principal.ErrMalformedToken, "Role token required", nil)
			return
		}

		p, err := principal.Resolve(token)
		if err != nil {
			slog.Warn("role token resolution failed", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid role token", nil)
			return
		}

		c.Set(ctxPrincipalKey, p)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (principal.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(principal.Principal)
	return p, ok
}
