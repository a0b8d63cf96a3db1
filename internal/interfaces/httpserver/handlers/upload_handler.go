package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/infrastructure/storage"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/responses"
	"curator-server/services/media-lifecycle/utils/assetid"
)

// UploadHandler accepts direct multipart uploads into the transient area.
type UploadHandler struct {
	cfg    *config.Config
	store  *storage.S3Storage
	ledger *ledger.Service
	log    zerolog.Logger
}

func NewUploadHandler(cfg *config.Config, store *storage.S3Storage, ledgerService *ledger.Service, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		cfg:    cfg,
		store:  store,
		ledger: ledgerService,
		log:    log.With().Str("component", "upload-handler").Logger(),
	}
}

// DirectUpload godoc
// @Summary      Upload a media file
// @Description  Stores the file in the caller's transient area and tracks it in the upload ledger. Untracked saves expire after the retention window.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200   {object}  responses.DirectUploadResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /v1/media/upload [post]
func (h *UploadHandler) DirectUpload(c *gin.Context) {
	owner, ok := auth.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxMediaBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds the %d byte limit", h.cfg.MaxMediaBytes),
		})
		return
	}

	// Read with a hard cap; the multipart header size is client-supplied.
	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxMediaBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read upload body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if int64(len(data)) > h.cfg.MaxMediaBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds the %d byte limit", h.cfg.MaxMediaBytes),
		})
		return
	}

	// Sniff the real content type instead of trusting the part header.
	mime := mimetype.Detect(data)
	kind := asset.KindFromMIME(mime.String())

	key := fmt.Sprintf("%s/temp/%s-%s", owner, assetid.New(), sanitizeFilename(header.Filename))
	if err := h.store.Upload(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), mime.String()); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("transient upload failed")
		responses.HandleError(c, err, "failed to store file")
		return
	}

	assetURL := h.store.PublicURL(key)
	entry, err := h.ledger.Track(c.Request.Context(), owner, assetURL, kind)
	if err != nil {
		// The object is stored but untracked; it would never be cleaned up.
		// Remove it and fail the request rather than leak.
		h.log.Error().Err(err).Str("key", key).Msg("ledger insert failed, removing stored object")
		if delErr := h.store.Delete(c.Request.Context(), key, kind); delErr != nil {
			h.log.Error().Err(delErr).Str("key", key).Msg("failed to remove untracked object")
		}
		responses.HandleError(c, err, "failed to track upload")
		return
	}

	c.JSON(http.StatusOK, responses.DirectUploadResponse{
		AssetURL:     assetURL,
		ResourceType: string(kind),
		Bytes:        int64(len(data)),
		Mime:         mime.String(),
		ExpiresAt:    entry.ExpiresAt,
	})
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return strings.ReplaceAll(base, " ", "_")
}
