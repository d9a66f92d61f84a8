package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

func getChatSettings(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := repos.ChatSettings.Get(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Defaults for users who never saved settings.
				c.JSON(http.StatusOK, models.ChatSettings{UserID: c.GetString("user_id"), Language: "ru"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings", "details": err.Error()})
			return
		}
		// The secret itself is never echoed back.
		settings.WebhookSecret = ""
		c.JSON(http.StatusOK, settings)
	}
}

func putChatSettings(repos *repository.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			WebhookURL    string `json:"webhook_url"`
			WebhookSecret string `json:"webhook_secret"`
			Language      string `json:"language"`
			VoiceReplies  bool   `json:"voice_replies"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
			return
		}

		settings := models.ChatSettings{
			UserID:        c.GetString("user_id"),
			WebhookURL:    body.WebhookURL,
			WebhookSecret: body.WebhookSecret,
			Language:      body.Language,
			VoiceReplies:  body.VoiceReplies,
		}
		if err := repos.ChatSettings.Put(c.Request.Context(), settings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings", "details": err.Error()})
			return
		}
		settings.WebhookSecret = ""
		c.JSON(http.StatusOK, settings)
	}
}
