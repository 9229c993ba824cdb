package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "authClaims"

// TokenFromRequest extracts the session token. Browsers cannot set the
// Authorization header on native WebSocket connects, so the query parameter
// and the session cookie are accepted as fallbacks.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie("session"); err == nil {
		return c.Value
	}
	return ""
}

// Middleware rejects requests without a valid session token and stashes the
// claims in the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c.Request)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// MustClaims returns the claims stored by Middleware. Only call from
// handlers behind it.
func MustClaims(c *gin.Context) *Claims {
	v, _ := c.Get(claimsKey)
	return v.(*Claims)
}
