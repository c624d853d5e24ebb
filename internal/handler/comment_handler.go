package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	"github.com/playshelf/playshelf-api/internal/service"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/response"
)

// CommentHandler wires HTTP endpoints to the comment service.
type CommentHandler struct {
	service *service.CommentService
}

// NewCommentHandler creates a new handler.
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{service: svc}
}

// Create godoc
// @Summary Post a comment
// @Description Add a comment to a game
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param payload body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /games/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	comment, err := h.service.Create(c.Request.Context(), c.Param("id"), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// ListByGame godoc
// @Summary List game comments
// @Description Returns a game's comments, newest first. Admins also see flagged comments.
// @Tags Comments
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/comments [get]
func (h *CommentHandler) ListByGame(c *gin.Context) {
	claims := claimsFromContext(c)
	isAdmin := claims != nil && claims.Role == models.RoleAdmin

	comments, err := h.service.ListByGame(c.Request.Context(), c.Param("id"), isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, comments, nil)
}

// Flag godoc
// @Summary Flag or unflag a comment
// @Description Toggle the moderation flag on a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param payload body dto.FlagCommentRequest true "Flag payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/comments/{id}/flag [put]
func (h *CommentHandler) Flag(c *gin.Context) {
	var req dto.FlagCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid flag payload"))
		return
	}

	claims := claimsFromContext(c)
	var actorID *string
	if claims != nil {
		actorID = &claims.UserID
	}

	if err := h.service.SetFlag(c.Request.Context(), c.Param("id"), req.Flagged, actorID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a comment
// @Description Players may delete their own comments; admins any comment
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
