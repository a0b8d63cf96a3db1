package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Media lifecycle metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Storage operations counter (both backends)
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "storage_operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "storage_duration_seconds",
			Help:      "Storage backend operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// Ledger rows tracked
	UploadsTrackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "uploads_tracked_total",
			Help:      "Total pending uploads inserted into the ledger",
		},
		[]string{"resource_type"},
	)

	// Relocation counters
	AssetsRelocatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "assets_relocated_total",
			Help:      "Total assets moved into permanent per-record storage",
		},
	)

	RelocationErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "relocation_errors_total",
			Help:      "Total per-asset relocation failures",
		},
	)

	// Cleanup counters
	CleanupDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "cleanup_deleted_total",
			Help:      "Total pending uploads physically deleted by cleanup",
		},
	)

	CleanupFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "cleanup_failed_total",
			Help:      "Total cleanup deletions that failed and were retained for retry",
		},
	)

	// Last audit bucket sizes
	AuditBucketSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "audit_bucket_size",
			Help:      "Entry count per bucket in the most recent audit report",
		},
		[]string{"bucket"},
	)

	// Library refresh queue depth
	RefreshQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "curator",
			Subsystem: "media_lifecycle",
			Name:      "refresh_queue_depth",
			Help:      "Pending media library refresh tasks",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordStorageOperation records a storage backend operation
func RecordStorageOperation(operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordUploadTracked records a ledger insert
func RecordUploadTracked(resourceType string) {
	UploadsTrackedTotal.WithLabelValues(resourceType).Inc()
}

// RecordRelocation records the outcome of one reorganize pass
func RecordRelocation(moved, failed int) {
	AssetsRelocatedTotal.Add(float64(moved))
	RelocationErrorsTotal.Add(float64(failed))
}

// RecordCleanup records the outcome of one cleanup pass
func RecordCleanup(deleted, failed int) {
	CleanupDeletedTotal.Add(float64(deleted))
	CleanupFailedTotal.Add(float64(failed))
}

// RecordAuditBuckets records the bucket sizes of an audit report
func RecordAuditBuckets(dangerous, alreadyDeleted, safeToDelete int) {
	AuditBucketSize.WithLabelValues("dangerous").Set(float64(dangerous))
	AuditBucketSize.WithLabelValues("already_deleted").Set(float64(alreadyDeleted))
	AuditBucketSize.WithLabelValues("safe_to_delete").Set(float64(safeToDelete))
}
