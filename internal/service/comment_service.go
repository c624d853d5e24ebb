package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type commentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByGame(ctx context.Context, gameID string, includeFlagged bool) ([]models.Comment, error)
	SetFlag(ctx context.Context, id string, flagged bool) error
	Delete(ctx context.Context, id string) error
}

// CommentService handles game comments and their moderation.
type CommentService struct {
	repo      commentRepository
	games     gameExistenceChecker
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommentService constructs a CommentService.
func NewCommentService(repo commentRepository, games gameExistenceChecker, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CommentService{repo: repo, games: games, audit: audit, validator: validate, logger: logger}
}

// Create posts a comment on a game.
func (s *CommentService) Create(ctx context.Context, gameID string, claims *models.JWTClaims, req dto.CreateCommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "comment body must be 1 to 2000 characters")
	}

	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}

	comment := &models.Comment{
		GameID:     gameID,
		UserID:     claims.UserID,
		AuthorName: claims.DisplayName,
		Body:       req.Body,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

// ListByGame returns a game's comments. Admins see flagged comments too.
func (s *CommentService) ListByGame(ctx context.Context, gameID string, isAdmin bool) ([]models.Comment, error) {
	comments, err := s.repo.ListByGame(ctx, gameID, isAdmin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// SetFlag toggles the moderation flag on a comment.
func (s *CommentService) SetFlag(ctx context.Context, commentID string, flagged bool, actorID *string) error {
	if err := s.repo.SetFlag(ctx, commentID, flagged); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update comment flag")
	}
	s.recordAudit(ctx, actorID, models.AuditActionCommentFlag, commentID, map[string]bool{"flagged": flagged})
	return nil
}

// Delete removes a comment. Players may delete their own; admins any.
func (s *CommentService) Delete(ctx context.Context, commentID string, claims *models.JWTClaims) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comment")
	}

	if claims.Role != models.RoleAdmin && comment.UserID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another user's comment")
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	s.recordAudit(ctx, &claims.UserID, models.AuditActionCommentDelete, commentID, nil)
	return nil
}

func (s *CommentService) recordAudit(ctx context.Context, userID *string, action, resourceID string, values interface{}) {
	if s.audit == nil {
		return
	}
	var payload []byte
	if values != nil {
		payload, _ = json.Marshal(values)
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   "comments",
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record comment audit log", zap.Error(err))
	}
}
