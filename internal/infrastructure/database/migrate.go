package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sitebot-server/services/assistant-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for the gateway domain.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Tenant{},
		&entities.Conversation{},
		&entities.Message{},
		&entities.KnowledgeDocument{},
		&entities.KnowledgeChunk{},
		&entities.Lead{},
		&entities.RateEvent{},
		&entities.CrawlRun{},
		&entities.NotificationTask{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
