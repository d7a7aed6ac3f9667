package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/config"
)

// New constructs the service logger from configuration.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var log zerolog.Logger
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	default:
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	return log.Level(level).With().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}
