package record

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/database/entities"
	"curator-server/services/media-lifecycle/utils/platformerrors"
)

// Repository handles owning-record media persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Record, error) {
	var entity entities.Record
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get record",
			err,
			"6d8e0f1a-2b3c-4d5e-8f7a-9b0c1d2e3f4a",
		)
	}
	rec := mapEntity(entity)
	return &rec, nil
}

func (r *Repository) UpdateMedia(ctx context.Context, id string, update domain.MediaUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gallery":     entities.StringSlice(update.Gallery),
			"thumbnail":   update.Thumbnail,
			"captions":    entities.StringMap(update.Captions),
			"summaries":   entities.StringMap(update.Summaries),
			"transcripts": entities.StringMap(update.Transcripts),
		})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update record media",
			result.Error,
			"0e1f2a3b-4c5d-4e6f-8a7b-9c0d1e2f3a4b",
		)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListAllMediaRefs(ctx context.Context) ([]domain.MediaRef, error) {
	var rows []entities.Record
	err := r.db.WithContext(ctx).
		Select("id", "gallery").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to scan record media references",
			err,
			"4a5b6c7d-8e9f-4a0b-8c1d-2e3f4a5b6c7d",
		)
	}

	refs := make([]domain.MediaRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, domain.MediaRef{
			RecordID: row.ID,
			Gallery:  []string(row.Gallery),
		})
	}
	return refs, nil
}

func mapEntity(entity entities.Record) domain.Record {
	return domain.Record{
		ID:          entity.ID,
		OwnerID:     entity.OwnerID,
		Gallery:     []string(entity.Gallery),
		Thumbnail:   entity.Thumbnail,
		Captions:    map[string]string(entity.Captions),
		Summaries:   map[string]string(entity.Summaries),
		Transcripts: map[string]string(entity.Transcripts),
	}
}
