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

func TestCreateGameFillsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGameRepository(db)

	mock.ExpectExec("INSERT INTO games").WillReturnResult(sqlmock.NewResult(1, 1))

	game := &models.Game{Title: "Math Blaster", Category: "math", PlayURL: "/games/files/abc/index.html"}
	err := repo.Create(context.Background(), game)
	require.NoError(t, err)
	assert.NotEmpty(t, game.ID)
	assert.NotNil(t, game.Tags)
	assert.NotNil(t, game.Quizzes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGamesWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGameRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM games WHERE 1=1 AND category = $1")).
		WithArgs("math").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "tags", "play_url", "lesson_title", "lesson_content", "quizzes", "created_by", "created_at", "updated_at"}).
		AddRow("g1", "Math Blaster", "", "math", []byte(`["arith"]`), "/games/files/abc/index.html", "", "", []byte(`[]`), nil, now, now)
	mock.ExpectQuery("SELECT id, title, description, category, tags, play_url, lesson_title, lesson_content, quizzes, created_by, created_at, updated_at FROM games WHERE 1=1 AND category = .+ ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs("math").
		WillReturnRows(rows)

	games, total, err := repo.List(context.Background(), models.GameFilter{Category: "math"})
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.StringList{"arith"}, games[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGamesRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGameRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM games WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), models.GameFilter{SortBy: "password_hash; DROP TABLE games"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGameNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGameRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM games WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameByIDAggregates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGameRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "tags", "play_url", "lesson_title", "lesson_content", "quizzes", "created_by", "created_at", "updated_at", "average_rating", "rating_count", "comment_count"}).
		AddRow("g1", "Math Blaster", "", "math", []byte(`[]`), "/games/files/abc/index.html", "", "", []byte(`[]`), nil, now, now, 4.5, 2, 3)
	mock.ExpectQuery("FROM games g").WithArgs("g1").WillReturnRows(rows)

	detail, err := repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, detail.AverageRating)
	assert.Equal(t, 2, detail.RatingCount)
	assert.Equal(t, 3, detail.CommentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
