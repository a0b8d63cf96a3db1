package libraryrefresh

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
)

// RewriteTask is one media library URL rewrite produced by a relocation.
type RewriteTask struct {
	OwnerID string
	OldURL  string
	NewURL  string
	Folder  string
}

// Refresher updates media library entries after assets are relocated. The
// library is a denormalized browsing view, so updates are best effort: tasks
// are dropped with a warning when the queue is full rather than blocking the
// relocation response.
type Refresher struct {
	db          *gorm.DB
	tasks       chan RewriteTask
	taskTimeout time.Duration
	log         zerolog.Logger
	stopChan    chan struct{}
}

// NewRefresher creates the refresher with a bounded in-process queue.
func NewRefresher(db *gorm.DB, queueSize int, taskTimeout time.Duration, log zerolog.Logger) *Refresher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Refresher{
		db:          db,
		tasks:       make(chan RewriteTask, queueSize),
		taskTimeout: taskTimeout,
		log:         log.With().Str("component", "library-refresher").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// EnqueueRewrite queues a URL rewrite without blocking the caller.
func (r *Refresher) EnqueueRewrite(ownerID, oldURL, newURL, folder string) {
	task := RewriteTask{OwnerID: ownerID, OldURL: oldURL, NewURL: newURL, Folder: folder}
	select {
	case r.tasks <- task:
		metrics.RefreshQueueDepth.Set(float64(len(r.tasks)))
	default:
		r.log.Warn().
			Str("owner_id", ownerID).
			Str("old_url", oldURL).
			Msg("refresh queue full, media library rewrite dropped")
	}
}

// Start processes queued rewrites until the context is cancelled or Stop is
// called. Run it on its own goroutine.
func (r *Refresher) Start(ctx context.Context) {
	r.log.Info().Msg("library refresher started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("library refresher stopped by context")
			return
		case <-r.stopChan:
			r.log.Info().Msg("library refresher stopped")
			return
		case task := <-r.tasks:
			metrics.RefreshQueueDepth.Set(float64(len(r.tasks)))
			r.processTask(ctx, task)
		}
	}
}

// Stop gracefully stops the refresher.
func (r *Refresher) Stop() {
	close(r.stopChan)
}

func (r *Refresher) processTask(ctx context.Context, task RewriteTask) {
	taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
	defer cancel()

	result := r.db.WithContext(taskCtx).
		Table("media_library_items").
		Where("asset_url = ? AND owner_id = ?", task.OldURL, task.OwnerID).
		Updates(map[string]interface{}{
			"asset_url": task.NewURL,
			"folder":    task.Folder,
		})
	if result.Error != nil {
		r.log.Error().Err(result.Error).
			Str("owner_id", task.OwnerID).
			Str("old_url", task.OldURL).
			Msg("media library rewrite failed")
		return
	}
	if result.RowsAffected == 0 {
		// Nothing to rewrite; the asset was never surfaced in the library.
		return
	}

	r.log.Info().
		Str("owner_id", task.OwnerID).
		Str("new_url", task.NewURL).
		Msg("media library entry rewritten")
}
