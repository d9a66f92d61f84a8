package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Agent webhook defaults; per-user chat settings override these.
	AgentWebhookURL    string        `env:"AGENT_WEBHOOK_URL"`
	AgentWebhookSecret string        `env:"AGENT_WEBHOOK_SECRET"`
	AgentTimeout       time.Duration `env:"AGENT_TIMEOUT" envDefault:"30s"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	EncryptionKey string        `env:"ENCRYPTION_KEY"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Cron expression for the nightly frequency-goal recompute.
	RecomputeSchedule string `env:"RECOMPUTE_SCHEDULE" envDefault:"0 3 * * *"`
	Timezone          string `env:"TIMEZONE" envDefault:"UTC"`
}

// Load reads configuration from the environment, loading a local .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
