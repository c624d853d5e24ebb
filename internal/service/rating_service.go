package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type ratingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByGameAndUser(ctx context.Context, gameID, userID string) (*models.Rating, error)
	Summary(ctx context.Context, gameID string) (float64, int, error)
}

type gameExistenceChecker interface {
	GetByID(ctx context.Context, id string) (*models.GameDetail, error)
}

// RatingService handles star ratings. One rating per user per game; repeat
// submissions replace the previous value.
type RatingService struct {
	repo      ratingRepository
	games     gameExistenceChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRatingService constructs a RatingService.
func NewRatingService(repo ratingRepository, games gameExistenceChecker, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RatingService{repo: repo, games: games, validator: validate, logger: logger}
}

// Rate stores the caller's rating and returns the updated aggregate.
func (s *RatingService) Rate(ctx context.Context, gameID, userID string, req dto.RateGameRequest) (float64, int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "stars must be between 1 and 5")
	}

	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}

	rating := &models.Rating{GameID: gameID, UserID: userID, Stars: req.Stars}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store rating")
	}

	avg, count, err := s.repo.Summary(ctx, gameID)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating summary")
	}
	return avg, count, nil
}

// GetOwn returns the caller's rating for a game, or nil when absent.
func (s *RatingService) GetOwn(ctx context.Context, gameID, userID string) (*models.Rating, error) {
	rating, err := s.repo.GetByGameAndUser(ctx, gameID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating")
	}
	return rating, nil
}
