package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/service"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// RatingHandler wires HTTP endpoints to the rating service.
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler creates a new handler.
func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// Rate godoc
// @Summary Rate a game
// @Description Submit a 1-5 star rating; a repeat rating replaces the previous one
// @Tags Ratings
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param payload body dto.RateGameRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id}/rating [put]
func (h *RatingHandler) Rate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rating payload"))
		return
	}

	avg, count, err := h.service.Rate(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"average_rating": avg,
		"rating_count":   count,
	}, nil)
}

// GetOwn godoc
// @Summary Get own rating
// @Description Returns the caller's rating for a game, if any
// @Tags Ratings
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/rating [get]
func (h *RatingHandler) GetOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rating, err := h.service.GetOwn(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rating, nil)
}
