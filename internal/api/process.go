package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/pipeline"
	"github.com/fitlog-app/fitlog/internal/webhook"
)

// processMessage is the pipeline entry point. A failed agent call yields a
// 500 with details; the already persisted user message is not rolled back.
func processMessage(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		result, err := p.Process(c.Request.Context(), c.GetString("user_id"), body.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// proxyWebhook forwards a raw message to the agent. Unlike the pipeline,
// upstream failure degrades to a synthesized apology reply instead of an
// error.
func proxyWebhook(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		reply, err := d.Agent.Send(c.Request.Context(), webhook.Request{
			Message:   body.Message,
			UserEmail: c.GetString("user_email"),
			UserName:  c.GetString("user_name"),
		})
		if err != nil {
			d.Logger.Error("agent proxy call failed", "error", err)
			c.JSON(http.StatusOK, webhook.FallbackReply())
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}
