package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/service"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// GameHandler wires HTTP endpoints to the game service.
type GameHandler struct {
	service        *service.GameService
	maxUploadBytes int64
}

// NewGameHandler creates a new handler.
func NewGameHandler(svc *service.GameService, maxUploadBytes int64) *GameHandler {
	return &GameHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// List godoc
// @Summary List games
// @Description Returns the game catalog with filters and pagination
// @Tags Games
// @Produce json
// @Param category query string false "Filter by category"
// @Param tag query string false "Filter by tag"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /games [get]
func (h *GameHandler) List(c *gin.Context) {
	var filter dto.GameListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	games, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, games, &pagination)
}

// Get godoc
// @Summary Get game detail
// @Description Returns one game with rating and comment aggregates
// @Tags Games
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id} [get]
func (h *GameHandler) Get(c *gin.Context) {
	detail, err := h.service.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Upload a single game
// @Description Create one game from a ZIP of its files plus form metadata
// @Tags Games
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Game files archive"
// @Param title formData string false "Game title"
// @Param category formData string false "Category"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/games [post]
func (h *GameHandler) Create(c *gin.Context) {
	var req dto.CreateGameRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form fields"))
		return
	}

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

	game, err := h.service.Create(c.Request.Context(), req, archive, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, game)
}

// Delete godoc
// @Summary Delete a game
// @Description Remove a game record and its files
// @Tags Games
// @Produce json
// @Param id path string true "Game ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/games/{id} [delete]
func (h *GameHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	var actorID *string
	if claims != nil {
		actorID = &claims.UserID
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// readUpload pulls the "file" part of a multipart request, enforcing the
// configured size cap before reading it into memory.
func readUpload(c *gin.Context, maxBytes int64) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "archive file is required")
	}
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "archive exceeds the upload size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded archive")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded archive")
	}
	return data, nil
}
