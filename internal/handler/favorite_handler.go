package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/service"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// FavoriteHandler wires HTTP endpoints to the favorite service.
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler creates a new handler.
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// Add godoc
// @Summary Favorite a game
// @Description Mark a game as favorited; repeat calls are idempotent
// @Tags Favorites
// @Produce json
// @Param id path string true "Game ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id}/favorite [put]
func (h *FavoriteHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Add(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Remove godoc
// @Summary Unfavorite a game
// @Description Remove a game from the caller's favorites
// @Tags Favorites
// @Produce json
// @Param id path string true "Game ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id}/favorite [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Remove(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// List godoc
// @Summary List favorites
// @Description Returns the caller's favorited games
// @Tags Favorites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	games, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, games, nil)
}
