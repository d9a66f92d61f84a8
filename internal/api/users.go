package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

func listUsers(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.Users.List(c.Request.Context()))
	}
}

func getUser(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := repos.Users.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func updateUser(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		user, err := repos.Users.UpdateName(c.Request.Context(), c.Param("id"), body.Name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
