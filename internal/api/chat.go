package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
)

func listChat(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		dayID := c.Query("day_id")
		if dayID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day_id is required"})
			return
		}
		day, err := repos.Days.GetByID(c.Request.Context(), dayID)
		if err != nil || day.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
			return
		}
		c.JSON(http.StatusOK, repos.Messages.ListByDay(c.Request.Context(), dayID))
	}
}

// appendChat stores a message without running the agent pipeline. The UI
// uses it to backfill manual notes.
func appendChat(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			DayID   string `json:"day_id"`
			Message string `json:"message"`
			IsUser  bool   `json:"is_user"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.DayID == "" || body.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day_id and message are required"})
			return
		}

		day, err := repos.Days.GetByID(c.Request.Context(), body.DayID)
		if err != nil || day.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
			return
		}

		msg, err := repos.Messages.Append(c.Request.Context(), day.UserID, day.ID, body.Message, body.IsUser)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist message", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
