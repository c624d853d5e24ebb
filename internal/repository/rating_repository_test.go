package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/models"
)

func TestUpsertRating(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec("INSERT INTO ratings").WillReturnResult(sqlmock.NewResult(1, 1))

	rating := &models.Rating{GameID: "g1", UserID: "u1", Stars: 5}
	err := repo.Upsert(context.Background(), rating)
	require.NoError(t, err)
	assert.NotEmpty(t, rating.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRatingMiss(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectQuery("SELECT id, game_id, user_id, stars").
		WithArgs("g1", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByGameAndUser(context.Background(), "g1", "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingSummary(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	rows := sqlmock.NewRows([]string{"average_rating", "rating_count"}).AddRow(3.5, 4)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(stars), 0) AS average_rating, COUNT(*) AS rating_count FROM ratings WHERE game_id = $1")).
		WithArgs("g1").
		WillReturnRows(rows)

	avg, count, err := repo.Summary(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRatingKeepsCreatedAt(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec("INSERT INTO ratings").WillReturnResult(sqlmock.NewResult(1, 1))

	created := time.Now().Add(-time.Hour)
	rating := &models.Rating{ID: "r1", GameID: "g1", UserID: "u1", Stars: 2, CreatedAt: created}
	err := repo.Upsert(context.Background(), rating)
	require.NoError(t, err)
	assert.Equal(t, created, rating.CreatedAt)
	assert.True(t, rating.UpdatedAt.After(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}
