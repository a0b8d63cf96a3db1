package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/requests"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/responses"
)

// LifecycleHandler exposes the upload ledger and the lifecycle engines.
type LifecycleHandler struct {
	ledger    *ledger.Service
	relocator *lifecycle.Relocator
	cleaner   *lifecycle.Cleaner
	auditor   *lifecycle.Reconciler
	sweeper   *lifecycle.LegacySweeper
	log       zerolog.Logger
}

func NewLifecycleHandler(
	ledgerService *ledger.Service,
	relocator *lifecycle.Relocator,
	cleaner *lifecycle.Cleaner,
	auditor *lifecycle.Reconciler,
	sweeper *lifecycle.LegacySweeper,
	log zerolog.Logger,
) *LifecycleHandler {
	return &LifecycleHandler{
		ledger:    ledgerService,
		relocator: relocator,
		cleaner:   cleaner,
		auditor:   auditor,
		sweeper:   sweeper,
		log:       log.With().Str("component", "lifecycle-handler").Logger(),
	}
}

// TrackUpload godoc
// @Summary      Track a pending upload
// @Description  Registers an uploaded asset in the ledger so it can be cleaned up if never saved.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      requests.TrackUploadRequest  true  "Upload to track"
// @Success      200      {object}  responses.TrackUploadResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/uploads/track [post]
func (h *LifecycleHandler) TrackUpload(c *gin.Context) {
	owner, ok := auth.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req requests.TrackUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := asset.ParseKind(req.ResourceType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.ledger.Track(c.Request.Context(), owner, req.AssetURL, kind)
	if err != nil {
		if errors.Is(err, asset.ErrUnknownBackend) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("track upload failed")
		responses.HandleError(c, err, "failed to track upload")
		return
	}

	c.JSON(http.StatusOK, responses.BuildTrackUploadResponse(entry))
}

// MarkSaved godoc
// @Summary      Mark uploads as saved
// @Description  Releases ledger rows for URLs now referenced by a saved record. Idempotent.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      requests.MarkSavedRequest  true  "Saved asset URLs"
// @Success      200      {object}  responses.MarkSavedResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/uploads/mark-saved [post]
func (h *LifecycleHandler) MarkSaved(c *gin.Context) {
	owner, ok := auth.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req requests.MarkSavedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.ledger.MarkSaved(c.Request.Context(), owner, req.AssetURLs)
	if err != nil {
		h.log.Error().Err(err).Msg("mark saved failed")
		responses.HandleError(c, err, "failed to mark uploads as saved")
		return
	}

	c.JSON(http.StatusOK, responses.MarkSavedResponse{Success: true, DeletedCount: deleted})
}

// Cleanup godoc
// @Summary      Delete the caller's tracked uploads
// @Description  Deletes tracked pending uploads from storage and prunes the ledger. Scope with assetUrls or omit it for everything.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CleanupRequest  false  "Optional URL scope"
// @Success      200      {object}  lifecycle.CleanupResult
// @Failure      500      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/uploads/cleanup [post]
func (h *LifecycleHandler) Cleanup(c *gin.Context) {
	owner, ok := auth.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req requests.CleanupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.cleaner.Cleanup(c.Request.Context(), owner, req.AssetURLs)
	if err != nil {
		h.log.Error().Err(err).Msg("cleanup failed")
		responses.HandleError(c, err, "failed to clean up uploads")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reorganize godoc
// @Summary      Relocate a record's assets
// @Description  Moves the record's transient assets into permanent per-record storage and rewrites all references.
// @Tags         records
// @Produce      json
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  lifecycle.ReorganizeResult
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /v1/records/{id}/reorganize [post]
func (h *LifecycleHandler) Reorganize(c *gin.Context) {
	owner, ok := auth.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	recordID := c.Param("id")

	result, err := h.relocator.Reorganize(c.Request.Context(), owner, recordID)
	if err != nil {
		switch {
		case errors.Is(err, record.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		case errors.Is(err, lifecycle.ErrNotRecordOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, lifecycle.ErrRecordUpdateFailed):
			h.log.Error().Err(err).Str("record_id", recordID).Msg("reorganize failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": lifecycle.ErrRecordUpdateFailed.Error()})
		default:
			h.log.Error().Err(err).Str("record_id", recordID).Msg("reorganize failed")
			responses.HandleError(c, err, "failed to reorganize record media")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Audit godoc
// @Summary      Audit the upload ledger
// @Description  Cross-checks every ledger entry against records and storage. Read-only; deletes nothing.
// @Tags         operations
// @Produce      json
// @Success      200  {object}  lifecycle.AuditReport
// @Failure      500  {object}  responses.ErrorResponse
// @Security     OpsKeyAuth
// @Router       /v1/uploads/audit [get]
func (h *LifecycleHandler) Audit(c *gin.Context) {
	report, err := h.auditor.Audit(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("audit failed")
		responses.HandleError(c, err, "failed to audit upload ledger")
		return
	}

	c.JSON(http.StatusOK, report)
}

// Sweep godoc
// @Summary      Legacy TTL sweep (retired)
// @Description  Counts expired ledger entries and deletes nothing. Kept for operational compatibility.
// @Tags         operations
// @Produce      json
// @Success      200  {object}  lifecycle.SweepResult
// @Failure      500  {object}  responses.ErrorResponse
// @Security     OpsKeyAuth
// @Router       /v1/uploads/sweep [post]
func (h *LifecycleHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("sweep failed")
		responses.HandleError(c, err, "failed to run legacy sweep")
		return
	}

	c.JSON(http.StatusOK, result)
}
