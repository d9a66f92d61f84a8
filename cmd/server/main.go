package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/api"
	"github.com/fitlog-app/fitlog/internal/auth"
	"github.com/fitlog-app/fitlog/internal/config"
	"github.com/fitlog-app/fitlog/internal/crypto"
	"github.com/fitlog-app/fitlog/internal/events"
	"github.com/fitlog-app/fitlog/internal/logging"
	"github.com/fitlog-app/fitlog/internal/pipeline"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/rules"
	"github.com/fitlog-app/fitlog/internal/store"
	"github.com/fitlog-app/fitlog/internal/tracker"
	"github.com/fitlog-app/fitlog/internal/webhook"
	"github.com/fitlog-app/fitlog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := store.New(cfg.RedisURL, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	var box *crypto.SecretBox
	if cfg.EncryptionKey != "" {
		box, err = crypto.NewSecretBox(cfg.EncryptionKey)
		if err != nil {
			logger.Error("invalid encryption key", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set, webhook secrets are stored unencrypted")
	}

	repos := repository.New(s, box, logger)
	sessions := auth.NewManager(s, repos.Users, cfg.SessionTTL, logger)

	ruleset, err := rules.Load()
	if err != nil {
		logger.Error("failed to load matching ruleset", "error", err)
		os.Exit(1)
	}

	publisher, err := events.NewPublisher(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	agent := webhook.NewClient(cfg.AgentWebhookURL, cfg.AgentWebhookSecret, cfg.AgentTimeout)
	tr := tracker.New(ruleset, repos, publisher, logger)
	pipe := pipeline.New(repos, agent, tr, publisher, cfg.AgentTimeout, logger)

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		logger.Error("failed to init task client", "error", err)
		os.Exit(1)
	}
	defer worker.CloseClient()

	stopWorker, err := worker.Start(cfg, logger, repos, sessions, tr)
	if err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg, logger)
	if err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer stopScheduler()

	hostname, _ := os.Hostname()
	stopConsumer, err := events.Start(cfg.RedisURL, "fitlog-"+hostname, events.NewHandlers(s, logger), logger)
	if err != nil {
		logger.Error("failed to start event consumer", "error", err)
		os.Exit(1)
	}
	defer stopConsumer()

	router := api.NewRouter(api.Deps{
		Store:         s,
		Repos:         repos,
		Sessions:      sessions,
		Pipeline:      pipe,
		Agent:         agent,
		AgentTimeout:  cfg.AgentTimeout,
		SecureCookies: cfg.Env == "production",
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
