package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

// setSessionCookie issues the httpOnly auth_token cookie.
func setSessionCookie(c *gin.Context, m *Manager, token string, secure bool) {
	c.SetCookie(CookieName, token, int(m.TTL().Seconds()), "/", "", secure, true)
}

// HandleRegister creates a user account and logs it in.
func HandleRegister(m *Manager, users *repository.Users, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
			return
		}

		user, err := users.Create(c.Request.Context(), body.Name, body.Email)
		if err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user", "details": err.Error()})
			return
		}

		token, _, err := m.Create(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "details": err.Error()})
			return
		}
		setSessionCookie(c, m, token, secureCookies)
		c.JSON(http.StatusCreated, user)
	}
}

// HandleLogin resolves an email to its account and issues a session.
func HandleLogin(m *Manager, users *repository.Users, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), body.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user", "details": err.Error()})
			return
		}

		token, _, err := m.Create(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "details": err.Error()})
			return
		}
		setSessionCookie(c, m, token, secureCookies)
		c.JSON(http.StatusOK, user)
	}
}

// HandleLogout revokes the current session and clears the cookie.
func HandleLogout(m *Manager, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(CookieName); err == nil {
			_ = m.Delete(c.Request.Context(), token)
		}
		c.SetCookie(CookieName, "", -1, "/", "", secureCookies, true)
		c.Status(http.StatusNoContent)
	}
}

// HandleMe returns the authenticated user's identity.
func HandleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("user_email"),
			"name":    c.GetString("user_name"),
		})
	}
}
