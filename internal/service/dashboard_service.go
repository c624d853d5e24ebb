package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type dashboardGameRepository interface {
	CountGames(ctx context.Context) (int, error)
	TopRated(ctx context.Context, limit int) ([]models.RatedGame, error)
}

type dashboardUserRepository interface {
	CountUsers(ctx context.Context) (int, error)
}

type dashboardCommentRepository interface {
	CountComments(ctx context.Context) (total int, flagged int, err error)
}

type dashboardScoreRepository interface {
	CountScores(ctx context.Context) (int, error)
}

const dashboardCacheKey = "dashboard:summary"

// DashboardService aggregates counters for the admin dashboard.
type DashboardService struct {
	games    dashboardGameRepository
	users    dashboardUserRepository
	comments dashboardCommentRepository
	scores   dashboardScoreRepository
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(games dashboardGameRepository, users dashboardUserRepository, comments dashboardCommentRepository, scores dashboardScoreRepository, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{games: games, users: users, comments: comments, scores: scores, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// Summary builds the dashboard snapshot, served from cache when possible.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var cached models.DashboardSummary
	if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	totalGames, err := s.games.CountGames(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count games")
	}
	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}
	totalComments, flagged, err := s.comments.CountComments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count comments")
	}
	totalScores, err := s.scores.CountScores(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count scores")
	}
	topRated, err := s.games.TopRated(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load top rated games")
	}
	if topRated == nil {
		topRated = []models.RatedGame{}
	}

	summary := &models.DashboardSummary{
		TotalGames:      totalGames,
		TotalUsers:      totalUsers,
		TotalComments:   totalComments,
		FlaggedComments: flagged,
		TotalScores:     totalScores,
		TopRated:        topRated,
		GeneratedAt:     time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
	return summary, nil
}
