package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/repository"
)

func listAchievements(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.Achievements.ListByUser(c.Request.Context(), c.GetString("user_id")))
	}
}

func listEquipment(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.Equipment.ListByUser(c.Request.Context(), c.GetString("user_id")))
	}
}

func createEquipment(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		e, err := repos.Equipment.Create(c.Request.Context(), c.GetString("user_id"), body.Name, body.Category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create equipment", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func deleteEquipment(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := repos.Equipment.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || e.UserID != c.GetString("user_id") {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		if err := repos.Equipment.Delete(c.Request.Context(), e.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete equipment", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listMuscleGroups(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repos.MuscleGroups.List(c.Request.Context()))
	}
}

func createMuscleGroup(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name   string `json:"name"`
			NameRu string `json:"name_ru"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		m, err := repos.MuscleGroups.Create(c.Request.Context(), body.Name, body.NameRu)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create muscle group", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

func deleteMuscleGroup(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repos.MuscleGroups.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete muscle group", "details": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
