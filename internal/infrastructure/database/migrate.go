package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"curator-server/services/media-lifecycle/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.PendingUpload{},
		&entities.Record{},
		&entities.MediaLibraryItem{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied media lifecycle migrations")
	return nil
}
