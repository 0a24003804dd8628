// Session authentication middleware.
//
// Tokens are accepted from two places, checked in order: the session cookie
// set at login, then an Authorization: Bearer header. Verification is
// delegated through VerifyFunc so the middleware stays decoupled from the
// auth service and is trivially testable.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the Gin context key for the authenticated user's id.
	userIDKey = "userID"
	// userEmailKey is the Gin context key for the authenticated user's email.
	userEmailKey = "userEmail"

	bearerPrefix = "Bearer "
)

// VerifyFunc validates a raw session token and returns the identity it
// carries. Any failure (bad signature, malformed, expired) must return a
// non-nil error.
type VerifyFunc func(token string) (userID, email string, err error)

// RequireAuth rejects requests that do not carry a valid session token with a
// 401 envelope. On success the user id and email are stored in the Gin
// context for handlers and downstream middleware.
func RequireAuth(cookieName string, verify VerifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			unauthorized(c, "authentication required")
			return
		}
		uid, email, err := verify(token)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, uid)
		c.Set(userEmailKey, email)
		c.Next()
	}
}

// OptionalAuth resolves a session token when one is present but never rejects
// the request. Used on endpoints that serve both anonymous and signed-in
// callers.
func OptionalAuth(cookieName string, verify VerifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c, cookieName); token != "" {
			if uid, email, err := verify(token); err == nil {
				c.Set(userIDKey, uid)
				c.Set(userEmailKey, email)
			}
		}
		c.Next()
	}
}

// UserIDFrom returns the authenticated user id from the Gin context, empty
// when the request is anonymous.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// extractToken pulls the session token from the cookie or the bearer header.
func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
