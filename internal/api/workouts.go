package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

func listWorkouts(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if dayID := c.Query("day_id"); dayID != "" {
			day, err := repos.Days.GetByID(c.Request.Context(), dayID)
			if err != nil || day.UserID != userID {
				c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
				return
			}
			c.JSON(http.StatusOK, repos.Workouts.ListByDay(c.Request.Context(), dayID))
			return
		}
		c.JSON(http.StatusOK, repos.Workouts.ListByUser(c.Request.Context(), userID))
	}
}

func getWorkout(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := repos.Workouts.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || w.UserID != c.GetString("user_id") {
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workout", "details": err.Error()})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "workout not found"})
			return
		}
		c.JSON(http.StatusOK, w)
	}
}

func updateWorkout(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := repos.Workouts.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || w.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "workout not found"})
			return
		}

		var body struct {
			Exercises []models.Exercise `json:"exercises"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || len(body.Exercises) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exercises are required"})
			return
		}

		updated, err := repos.Workouts.UpdateExercises(c.Request.Context(), w.ID, body.Exercises)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update workout", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteWorkout(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := repos.Workouts.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || w.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "workout not found"})
			return
		}
		if err := repos.Workouts.Delete(c.Request.Context(), w.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete workout", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
