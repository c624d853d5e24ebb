package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/service"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// ScoreHandler wires HTTP endpoints to the score service.
type ScoreHandler struct {
	service *service.ScoreService
}

// NewScoreHandler creates a new handler.
func NewScoreHandler(svc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{service: svc}
}

// Submit godoc
// @Summary Submit a score
// @Description Record a leaderboard score for a game
// @Tags Scores
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param payload body dto.SubmitScoreRequest true "Score payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id}/scores [post]
func (h *ScoreHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}

	entry, err := h.service.Submit(c.Request.Context(), c.Param("id"), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// Leaderboard godoc
// @Summary Get leaderboard
// @Description Returns the top scores for a game, highest first
// @Tags Scores
// @Produce json
// @Param id path string true "Game ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/leaderboard [get]
func (h *ScoreHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.service.Leaderboard(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}
