package handlers

import (
	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/infrastructure/storage"
)

// Provider wires HTTP handlers.
type Provider struct {
	Lifecycle *LifecycleHandler
	Upload    *UploadHandler
}

func NewProvider(
	cfg *config.Config,
	ledgerService *ledger.Service,
	relocator *lifecycle.Relocator,
	cleaner *lifecycle.Cleaner,
	auditor *lifecycle.Reconciler,
	sweeper *lifecycle.LegacySweeper,
	objectStore *storage.S3Storage,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Lifecycle: NewLifecycleHandler(ledgerService, relocator, cleaner, auditor, sweeper, log),
		Upload:    NewUploadHandler(cfg, objectStore, ledgerService, log),
	}
}
