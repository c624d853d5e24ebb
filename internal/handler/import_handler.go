package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/service"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// ImportHandler wires the bulk archive import endpoint.
type ImportHandler struct {
	service        *service.ImportService
	metrics        *service.MetricsService
	maxUploadBytes int64
}

// NewImportHandler creates a new handler.
func NewImportHandler(svc *service.ImportService, metrics *service.MetricsService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{service: svc, metrics: metrics, maxUploadBytes: maxUploadBytes}
}

// Import godoc
// @Summary Bulk import games
// @Description Import many games from a single ZIP, one manifest-bearing folder per game
// @Tags Games
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Games archive"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/games/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	archive, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		response.Error(c, err)
		return
	}

	claims := claimsFromContext(c)
	var createdBy *string
	if claims != nil {
		createdBy = &claims.UserID
	}

	result, err := h.service.Import(c.Request.Context(), archive, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordImport(result.Created, result.Skipped)
	}

	response.Created(c, result)
}
