package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth resolves the auth_token cookie to a session and aborts with
// 401 when there is none. Downstream handlers read user identity from the
// gin context.
func RequireAuth(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, _ := m.Get(c.Request.Context(), token)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set("user_id", session.UserID)
		c.Set("user_email", session.Email)
		c.Set("user_name", session.Name)
		c.Next()
	}
}
