package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/models"
)

func TestCreateScore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec("INSERT INTO scores").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.ScoreEntry{GameID: "g1", UserID: "u1", PlayerName: "Ada", Score: 900}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopByGameOrdersAndLimits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "game_id", "user_id", "player_name", "score", "created_at"}).
		AddRow("s1", "g1", "u1", "Ada", int64(900), now).
		AddRow("s2", "g1", "u2", "Bob", int64(900), now.Add(time.Second))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY score DESC, created_at ASC, id ASC")).
		WithArgs("g1", 100).
		WillReturnRows(rows)

	entries, err := repo.TopByGame(context.Background(), "g1", 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada", entries[0].PlayerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
