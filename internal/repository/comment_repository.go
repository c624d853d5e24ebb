package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/playshelf/playshelf-api/internal/models"
)

// CommentRepository handles game comments and moderation state.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository constructs the repository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, game_id, user_id, author_name, body, flagged, created_at`

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO comments (` + commentColumns + `) VALUES (:id, :game_id, :user_id, :author_name, :body, :flagged, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetByID returns one comment.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 LIMIT 1`
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// ListByGame returns a game's comments newest first. When includeFlagged is
// false, flagged comments are hidden.
func (r *CommentRepository) ListByGame(ctx context.Context, gameID string, includeFlagged bool) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE game_id = $1`
	if !includeFlagged {
		query += ` AND flagged = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, gameID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// SetFlag updates the moderation flag on a comment.
func (r *CommentRepository) SetFlag(ctx context.Context, id string, flagged bool) error {
	const query = `UPDATE comments SET flagged = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, flagged)
	if err != nil {
		return fmt.Errorf("flag comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check comment flag rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one comment.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM comments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check comment delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountComments returns the total and flagged comment counts.
func (r *CommentRepository) CountComments(ctx context.Context) (total int, flagged int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE flagged) AS flagged FROM comments`
	var row struct {
		Total   int `db:"total"`
		Flagged int `db:"flagged"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("count comments: %w", err)
	}
	return row.Total, row.Flagged, nil
}
