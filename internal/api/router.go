// Package api wires the HTTP surface: entity CRUD, the message-processing
// pipeline entry point, the agent webhook proxy, and admin endpoints.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/auth"
	"github.com/fitlog-app/fitlog/internal/health"
	"github.com/fitlog-app/fitlog/internal/pipeline"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
	"github.com/fitlog-app/fitlog/internal/webhook"
)

// Deps carries everything the router needs.
type Deps struct {
	Store         *store.Client
	Repos         *repository.Set
	Sessions      *auth.Manager
	Pipeline      *pipeline.Pipeline
	Agent         *webhook.Client
	AgentTimeout  time.Duration
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", health.Handler(d.Store))

	api := r.Group("/api")
	api.POST("/users", auth.HandleRegister(d.Sessions, d.Repos.Users, d.SecureCookies))
	api.POST("/auth/login", auth.HandleLogin(d.Sessions, d.Repos.Users, d.SecureCookies))
	api.POST("/auth/logout", auth.HandleLogout(d.Sessions, d.SecureCookies))

	authed := api.Group("", auth.RequireAuth(d.Sessions))
	{
		authed.GET("/auth/me", auth.HandleMe())

		authed.GET("/users", listUsers(d.Repos))
		authed.GET("/users/:id", getUser(d.Repos))
		authed.PUT("/users/:id", updateUser(d.Repos))

		authed.GET("/days", listDays(d.Repos))
		authed.POST("/days", getOrCreateDay(d.Repos))
		authed.GET("/days/:id", getDay(d.Repos))
		authed.DELETE("/days/:id", deleteDay(d.Repos))

		authed.GET("/chat", listChat(d.Repos))
		authed.POST("/chat", appendChat(d.Repos))

		authed.GET("/goals", listGoals(d.Repos))
		authed.POST("/goals", createGoal(d.Repos))
		authed.GET("/goals/:id", getGoal(d.Repos))
		authed.PUT("/goals/:id", updateGoal(d.Repos))
		authed.DELETE("/goals/:id", deleteGoal(d.Repos))

		authed.GET("/workouts", listWorkouts(d.Repos))
		authed.GET("/workouts/:id", getWorkout(d.Repos))
		authed.PUT("/workouts/:id", updateWorkout(d.Repos))
		authed.DELETE("/workouts/:id", deleteWorkout(d.Repos))

		authed.GET("/achievements", listAchievements(d.Repos))

		authed.GET("/equipment", listEquipment(d.Repos))
		authed.POST("/equipment", createEquipment(d.Repos))
		authed.DELETE("/equipment/:id", deleteEquipment(d.Repos))

		authed.GET("/muscle-groups", listMuscleGroups(d.Repos))
		authed.POST("/muscle-groups", createMuscleGroup(d.Repos))
		authed.DELETE("/muscle-groups/:id", deleteMuscleGroup(d.Repos))

		authed.GET("/chat-settings", getChatSettings(d.Repos))
		authed.PUT("/chat-settings", putChatSettings(d.Repos))

		authed.POST("/process-message", processMessage(d.Pipeline))
		authed.POST("/webhook", proxyWebhook(d))

		authed.GET("/admin/workouts", adminListWorkouts(d.Repos))
		authed.DELETE("/admin/workouts/:id", adminDeleteWorkout(d.Repos))
		authed.POST("/clear-user-data", clearUserData(d.Logger))
	}

	return r
}
