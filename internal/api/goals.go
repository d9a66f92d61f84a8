package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

type goalBody struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	DueDate      string  `json:"due_date"`
}

func listGoals(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.Goals.ListByUser(c.Request.Context(), c.GetString("user_id")))
	}
}

func createGoal(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body goalBody
		if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		if body.TargetValue <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_value must be positive"})
			return
		}

		goal, err := repos.Goals.Create(c.Request.Context(), models.Goal{
			UserID:       c.GetString("user_id"),
			Title:        body.Title,
			Description:  body.Description,
			CurrentValue: body.CurrentValue,
			TargetValue:  body.TargetValue,
			Unit:         body.Unit,
			Category:     body.Category,
			DueDate:      body.DueDate,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, goal)
	}
}

func getGoal(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := repos.Goals.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || goal.UserID != c.GetString("user_id") {
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load goal", "details": err.Error()})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

func updateGoal(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := repos.Goals.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || goal.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}

		var body goalBody
		if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		if body.TargetValue <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_value must be positive"})
			return
		}

		goal.Title = body.Title
		goal.Description = body.Description
		goal.TargetValue = body.TargetValue
		goal.Unit = body.Unit
		goal.Category = body.Category
		goal.DueDate = body.DueDate
		goal.CurrentValue = body.CurrentValue
		if goal.CurrentValue < 0 {
			goal.CurrentValue = 0
		}
		if goal.CurrentValue > goal.TargetValue {
			goal.CurrentValue = goal.TargetValue
		}

		if err := repos.Goals.Update(c.Request.Context(), goal); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update goal", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

func deleteGoal(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		goal, err := repos.Goals.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || goal.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		if err := repos.Goals.Delete(c.Request.Context(), goal.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete goal", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
