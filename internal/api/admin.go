package api

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/worker"
)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// adminListWorkouts lists every workout in one month bucket, across users.
func adminListWorkouts(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		month := c.Query("month")
		if !monthRe.MatchString(month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"month":    month,
			"workouts": repos.Workouts.ListByMonth(c.Request.Context(), month),
		})
	}
}

// adminDeleteWorkout removes a workout regardless of owner.
func adminDeleteWorkout(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := repos.Workouts.GetByID(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "workout not found"})
			return
		}
		if err := repos.Workouts.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete workout", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// clearUserData enqueues the bulk deletion task for a user id.
func clearUserData(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		if err := worker.EnqueueClearUserData(body.UserID); err != nil {
			logger.Error("failed to enqueue clear-user-data", "user_id", body.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue deletion", "details": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "user_id": body.UserID})
	}
}
