package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neurixa/neurixa/internal/domain/user"
	"github.com/neurixa/neurixa/pkg/apperr"
	"github.com/neurixa/neurixa/pkg/helpers"
	"github.com/neurixa/neurixa/pkg/metrics"
	"github.com/neurixa/neurixa/pkg/response"
)

// Context keys set by Authenticate on success.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxAuthToken = "authToken"
)

const bearerPrefix = "Bearer "

// Authenticate resolves the request principal from the Authorization header.
// It never rejects: a missing, malformed, invalid, or revoked token leaves
// the request unauthenticated and the chain continues. Route guards decide
// whether anonymous access is acceptable. Running it twice is a no-op.
func Authenticate(codec *helpers.TokenCodec, denylist helpers.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) != "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			c.Next()
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			metrics.TokenRejections.Inc()
			c.Next()
			return
		}

		revoked, err := denylist.IsRevoked(c.Request.Context(), token)
		if err != nil || revoked {
			if revoked {
				metrics.RevokedTokenHits.Inc()
			}
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxAuthToken, token)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			response.WriteError(c, apperr.Unauthenticated("Authentication required"))
			return
		}
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and authenticated requests
// whose token role is not in the allowed set with 403.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			response.WriteError(c, apperr.Unauthenticated("Authentication required"))
			return
		}
		if _, ok := allowed[c.GetString(CtxUserRole)]; !ok {
			response.WriteError(c, apperr.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}
