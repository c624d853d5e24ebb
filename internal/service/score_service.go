package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type scoreRepository interface {
	Create(ctx context.Context, entry *models.ScoreEntry) error
	TopByGame(ctx context.Context, gameID string, limit int) ([]models.ScoreEntry, error)
}

// ScoreService handles leaderboard submissions and reads.
type ScoreService struct {
	repo           scoreRepository
	games          gameExistenceChecker
	validator      *validator.Validate
	logger         *zap.Logger
	leaderboardCap int
}

// NewScoreService constructs a ScoreService.
func NewScoreService(repo scoreRepository, games gameExistenceChecker, validate *validator.Validate, logger *zap.Logger, leaderboardCap int) *ScoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if leaderboardCap <= 0 || leaderboardCap > 100 {
		leaderboardCap = 100
	}
	return &ScoreService{repo: repo, games: games, validator: validate, logger: logger, leaderboardCap: leaderboardCap}
}

// Submit records a score. The player name defaults to the account's display
// name when omitted.
func (s *ScoreService) Submit(ctx context.Context, gameID string, claims *models.JWTClaims, req dto.SubmitScoreRequest) (*models.ScoreEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}

	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}

	playerName := strings.TrimSpace(req.PlayerName)
	if playerName == "" {
		playerName = claims.DisplayName
	}

	entry := &models.ScoreEntry{
		GameID:     gameID,
		UserID:     claims.UserID,
		PlayerName: playerName,
		Score:      req.Score,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store score")
	}
	return entry, nil
}

// Leaderboard returns the top scores for a game, capped.
func (s *ScoreService) Leaderboard(ctx context.Context, gameID string, limit int) ([]models.ScoreEntry, error) {
	if limit <= 0 || limit > s.leaderboardCap {
		limit = s.leaderboardCap
	}
	entries, err := s.repo.TopByGame(ctx, gameID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaderboard")
	}
	if entries == nil {
		entries = []models.ScoreEntry{}
	}
	return entries, nil
}
