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

func TestCreateComment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCommentRepository(db)

	mock.ExpectExec("INSERT INTO comments").WillReturnResult(sqlmock.NewResult(1, 1))

	comment := &models.Comment{GameID: "g1", UserID: "u1", AuthorName: "Ada", Body: "fun game"}
	err := repo.Create(context.Background(), comment)
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByGameHidesFlagged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCommentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "game_id", "user_id", "author_name", "body", "flagged", "created_at"}).
		AddRow("c1", "g1", "u1", "Ada", "fun game", false, now)
	mock.ExpectQuery(regexp.QuoteMeta("AND flagged = FALSE ORDER BY created_at DESC, id DESC")).
		WithArgs("g1").
		WillReturnRows(rows)

	comments, err := repo.ListByGame(context.Background(), "g1", false)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.False(t, comments[0].Flagged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFlagNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCommentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET flagged = $2 WHERE id = $1")).
		WithArgs("missing", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetFlag(context.Background(), "missing", true)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountComments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCommentRepository(db)

	rows := sqlmock.NewRows([]string{"total", "flagged"}).AddRow(10, 2)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(rows)

	total, flagged, err := repo.CountComments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, 2, flagged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
