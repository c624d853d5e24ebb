package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type favoriteRepository interface {
	Add(ctx context.Context, gameID, userID string) error
	Remove(ctx context.Context, gameID, userID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Game, error)
}

// FavoriteService handles per-user game favorites.
type FavoriteService struct {
	repo   favoriteRepository
	games  gameExistenceChecker
	logger *zap.Logger
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(repo favoriteRepository, games gameExistenceChecker, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{repo: repo, games: games, logger: logger}
}

// Add marks a game as favorited for the caller. Re-favoriting is idempotent.
func (s *FavoriteService) Add(ctx context.Context, gameID, userID string) error {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}
	if err := s.repo.Add(ctx, gameID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add favorite")
	}
	return nil
}

// Remove unfavorites a game for the caller.
func (s *FavoriteService) Remove(ctx context.Context, gameID, userID string) error {
	if err := s.repo.Remove(ctx, gameID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "favorite not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favorite")
	}
	return nil
}

// List returns the caller's favorited games, most recent first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Game, error) {
	games, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}
