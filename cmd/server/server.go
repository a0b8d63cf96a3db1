package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/infrastructure/database"
	"curator-server/services/media-lifecycle/internal/infrastructure/logger"
	"curator-server/services/media-lifecycle/internal/infrastructure/observability"
	ledgerrepo "curator-server/services/media-lifecycle/internal/infrastructure/repository/ledger"
	recordrepo "curator-server/services/media-lifecycle/internal/infrastructure/repository/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/storage"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/handlers"
	"curator-server/services/media-lifecycle/internal/tasks/libraryrefresh"
)

// @title Media Lifecycle API
// @version 1.0
// @description Asset lifecycle tracking, relocation and retention cleanup service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey OpsKeyAuth
// @in header
// @name X-Media-Ops-Key
type Application struct {
	httpServer *httpserver.HttpServer
	refresher  *libraryrefresh.Refresher
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, refresher *libraryrefresh.Refresher, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		refresher:  refresher,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	go a.refresher.Start(ctx)
	defer a.refresher.Stop()
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	directStore, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize direct-object storage")
	}
	legacyStore := storage.NewCDNStorage(cfg, log)

	classifier := asset.NewClassifier(cfg.PublicObjectBase(), cfg.S3Bucket, cfg.CDNDeliveryHost, cfg.CDNCloudName)

	ledgerRepository := ledgerrepo.NewRepository(db)
	recordStore := recordrepo.NewRepository(db)

	ledgerService := ledger.NewService(ledgerRepository, classifier, cfg.PendingUploadTTL, log)
	refresher := libraryrefresh.NewRefresher(db, cfg.RefreshQueueSize, cfg.RefreshTaskTimeout, log)
	relocator := lifecycle.NewRelocator(recordStore, directStore, classifier, refresher, log)
	cleaner := lifecycle.NewCleaner(ledgerService, directStore, legacyStore, classifier, log)
	auditor := lifecycle.NewReconciler(ledgerService, recordStore, directStore, legacyStore, classifier, log)
	sweeper := lifecycle.NewLegacySweeper(ledgerService, log)

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	handlerProvider := handlers.NewProvider(cfg, ledgerService, relocator, cleaner, auditor, sweeper, directStore, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, refresher, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
