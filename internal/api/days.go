package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

func listDays(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.Days.ListByUser(c.Request.Context(), c.GetString("user_id")))
	}
}

func getOrCreateDay(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Date string `json:"date"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
			return
		}
		if _, err := time.Parse("2006-01-02", body.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}

		day, err := repos.Days.GetOrCreate(c.Request.Context(), c.GetString("user_id"), body.Date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create day", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, day)
	}
}

func getDay(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := repos.Days.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || day.UserID != c.GetString("user_id") {
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load day", "details": err.Error()})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"day":      day,
			"messages": repos.Messages.ListByDay(c.Request.Context(), day.ID),
			"workouts": repos.Workouts.ListByDay(c.Request.Context(), day.ID),
		})
	}
}

func deleteDay(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := repos.Days.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || day.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
			return
		}

		if err := repos.DeleteDay(c.Request.Context(), day.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete day", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
