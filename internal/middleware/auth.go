package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"billflow/internal/domain"
	"billflow/internal/service"
)

const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
	ContextKeyEmail     = "email"
	ContextKeyNamespace = "namespace"
	ContextKeyClaims    = "claims"
)

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

// AuthMiddleware returns Gin middleware that validates JWT tokens and injects
// the caller's namespace. Requests without an Authorization header fall back
// to the guest namespace when allowGuest is set.
func AuthMiddleware(authService service.AuthService, allowGuest bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && allowGuest {
			c.Set(ContextKeyNamespace, domain.GuestNamespace)
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyNamespace, claims.Namespace)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAccount rejects guest sessions. It relies on AuthMiddleware having
// already set the namespace.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, err := GetNamespace(c)
		if err != nil || ns.IsGuest() {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign in to use this feature")
			return
		}
		c.Next()
	}
}

// GetNamespace extracts the namespace from the Gin context.
func GetNamespace(c *gin.Context) (domain.Namespace, error) {
	val, exists := c.Get(ContextKeyNamespace)
	if !exists {
		return "", domain.ErrUnauthorized
	}
	ns, ok := val.(domain.Namespace)
	if !ok || ns == "" {
		return "", domain.ErrUnauthorized
	}
	return ns, nil
}
