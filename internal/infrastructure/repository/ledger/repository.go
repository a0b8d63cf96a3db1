package ledger

import (
	"context"

	"gorm.io/gorm"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	domain "curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/infrastructure/database/entities"
	"curator-server/services/media-lifecycle/utils/platformerrors"
)

// Repository handles pending upload ledger persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, entry *domain.Entry) error {
	entity := entities.PendingUpload{
		ID:                entry.ID,
		UserID:            entry.OwnerID,
		AssetURL:          entry.AssetURL,
		StorageIdentifier: entry.StorageIdentifier,
		ResourceType:      string(entry.ResourceType),
		CreatedAt:         entry.CreatedAt,
		ExpiresAt:         entry.ExpiresAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert pending upload",
			err,
			"5f0c2a7e-91d4-4f3b-8c6a-0d1e2f3a4b5c",
		)
	}
	return nil
}

func (r *Repository) DeleteByOwnerAndURLs(ctx context.Context, ownerID string, urls []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND asset_url IN ?", ownerID, urls).
		Delete(&entities.PendingUpload{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete pending uploads by url",
			result.Error,
			"8a1b3c5d-7e9f-4a2b-8c4d-6e8f0a1b2c3d",
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&entities.PendingUpload{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete pending uploads by id",
			result.Error,
			"3c5d7e9f-1a2b-4c4d-8e6f-0a2b4c6d8e9f",
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) ListForOwner(ctx context.Context, ownerID string) ([]*domain.Entry, error) {
	var rows []entities.PendingUpload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list pending uploads for owner",
			err,
			"9f1a2b3c-5d6e-4f7a-8b9c-1d2e3f4a5b6c",
		)
	}
	return mapEntries(rows), nil
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	var rows []entities.PendingUpload
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list pending uploads",
			err,
			"2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e",
		)
	}
	return mapEntries(rows), nil
}

func mapEntries(rows []entities.PendingUpload) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.Entry{
			ID:                row.ID,
			OwnerID:           row.UserID,
			AssetURL:          row.AssetURL,
			StorageIdentifier: row.StorageIdentifier,
			ResourceType:      asset.Kind(row.ResourceType),
			CreatedAt:         row.CreatedAt,
			ExpiresAt:         row.ExpiresAt,
		})
	}
	return entries
}
