package auth

import (
	"net/http"
	"strings"

	"github.com/bilingual-blog-api/internal/models"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Middleware attaches the caller identity when the request carries a valid
// token, from the cookie first and the Authorization header second.
// Requests without a valid token continue anonymously.
func Middleware(tokens *TokenManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token != "" {
			if id, err := tokens.Verify(token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

// IdentityFrom returns the caller identity, or nil for anonymous requests
func IdentityFrom(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*models.Identity)
	return id
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and callers outside roles with 403
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "access denied",
		})
	}
}

// SetCookie stores token in an HTTP-only session cookie
func SetCookie(c *gin.Context, name, token string, maxAgeSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, maxAgeSeconds, "/", "", secure, true)
}

// ClearCookie expires the session cookie
func ClearCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}
