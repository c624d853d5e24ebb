package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type stubRatingRepo struct {
	upserts []models.Rating
	own     *models.Rating
	avg     float64
	count   int
}

func (s *stubRatingRepo) Upsert(_ context.Context, rating *models.Rating) error {
	s.upserts = append(s.upserts, *rating)
	return nil
}

func (s *stubRatingRepo) GetByGameAndUser(_ context.Context, _, _ string) (*models.Rating, error) {
	if s.own == nil {
		return nil, sql.ErrNoRows
	}
	return s.own, nil
}

func (s *stubRatingRepo) Summary(_ context.Context, _ string) (float64, int, error) {
	return s.avg, s.count, nil
}

func TestRateReturnsSummary(t *testing.T) {
	repo := &stubRatingRepo{avg: 4.5, count: 2}
	svc := NewRatingService(repo, existingGame(), nil, nil)

	avg, count, err := svc.Rate(context.Background(), "g1", "u1", dto.RateGameRequest{Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 2, count)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, 5, repo.upserts[0].Stars)
}

func TestRateRejectsOutOfRange(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{}, existingGame(), nil, nil)

	for _, stars := range []int{0, 6, -1} {
		_, _, err := svc.Rate(context.Background(), "g1", "u1", dto.RateGameRequest{Stars: stars})
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestRateUnknownGame(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{}, &stubGameRepo{}, nil, nil)

	_, _, err := svc.Rate(context.Background(), "missing", "u1", dto.RateGameRequest{Stars: 3})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetOwnRatingAbsent(t *testing.T) {
	svc := NewRatingService(&stubRatingRepo{}, existingGame(), nil, nil)

	rating, err := svc.GetOwn(context.Background(), "g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, rating)
}
