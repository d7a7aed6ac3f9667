package sessionstore

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/accessgate"
)

// New builds the session store selected by SESSION_STORE_DRIVER.
func New(cfg *config.Config, log zerolog.Logger) accessgate.SessionStore {
	switch cfg.SessionStoreDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info().Str("driver", "redis").Str("addr", cfg.RedisAddr).Msg("session store ready")
		return NewRedisStore(client)
	default:
		log.Info().Str("driver", "memory").Msg("session store ready")
		return NewMemoryStore()
	}
}
