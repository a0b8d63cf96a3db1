//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/infrastructure/database"
	"curator-server/services/media-lifecycle/internal/infrastructure/logger"
	ledgerrepo "curator-server/services/media-lifecycle/internal/infrastructure/repository/ledger"
	recordrepo "curator-server/services/media-lifecycle/internal/infrastructure/repository/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/storage"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/handlers"
	"curator-server/services/media-lifecycle/internal/tasks/libraryrefresh"
)

var lifecycleSet = wire.NewSet(
	ledgerrepo.NewRepository,
	wire.Bind(new(ledger.Repository), new(*ledgerrepo.Repository)),
	recordrepo.NewRepository,
	wire.Bind(new(record.Store), new(*recordrepo.Repository)),
	newClassifier,
	newLedgerService,
	wire.Bind(new(lifecycle.Ledger), new(*ledger.Service)),
	newRefresher,
	wire.Bind(new(lifecycle.Refresher), new(*libraryrefresh.Refresher)),
	newRelocator,
	newCleaner,
	newReconciler,
	lifecycle.NewLegacySweeper,
)

// BuildApplication assembles the media lifecycle service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		storage.NewS3Storage,
		storage.NewCDNStorage,
		lifecycleSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newClassifier(cfg *config.Config) *asset.Classifier {
	return asset.NewClassifier(cfg.PublicObjectBase(), cfg.S3Bucket, cfg.CDNDeliveryHost, cfg.CDNCloudName)
}

func newLedgerService(repo ledger.Repository, classifier *asset.Classifier, cfg *config.Config, log zerolog.Logger) *ledger.Service {
	return ledger.NewService(repo, classifier, cfg.PendingUploadTTL, log)
}

func newRefresher(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *libraryrefresh.Refresher {
	return libraryrefresh.NewRefresher(db, cfg.RefreshQueueSize, cfg.RefreshTaskTimeout, log)
}

func newRelocator(records record.Store, direct *storage.S3Storage, classifier *asset.Classifier, refresher lifecycle.Refresher, log zerolog.Logger) *lifecycle.Relocator {
	return lifecycle.NewRelocator(records, direct, classifier, refresher, log)
}

func newCleaner(entries *ledger.Service, direct *storage.S3Storage, legacy *storage.CDNStorage, classifier *asset.Classifier, log zerolog.Logger) *lifecycle.Cleaner {
	return lifecycle.NewCleaner(entries, direct, legacy, classifier, log)
}

func newReconciler(entries *ledger.Service, records record.Store, direct *storage.S3Storage, legacy *storage.CDNStorage, classifier *asset.Classifier, log zerolog.Logger) *lifecycle.Reconciler {
	return lifecycle.NewReconciler(entries, records, direct, legacy, classifier, log)
}
