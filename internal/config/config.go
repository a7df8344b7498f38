package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL string
	APIToken   string
	MirrorPort string
	DBPath     string
	LogLevel   string
	StateID    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBaseURL: getEnv("API_BASE_URL", ""),
		APIToken:   getEnv("API_TOKEN", ""),
		MirrorPort: getEnv("MIRROR_PORT", "8090"),
		DBPath:     getEnv("DB_PATH", "console.db"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		StateID:    getEnv("STATE_ID", ""),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	logger.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("mirror_port", cfg.MirrorPort).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
