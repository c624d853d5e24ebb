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

// RatingRepository handles per-user game ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores a rating, replacing any previous rating by the same user for
// the same game. The latest submission wins.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now

	const query = `INSERT INTO ratings (id, game_id, user_id, stars, created_at, updated_at)
	VALUES (:id, :game_id, :user_id, :stars, :created_at, :updated_at)
	ON CONFLICT (game_id, user_id)
	DO UPDATE SET stars = EXCLUDED.stars, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// GetByGameAndUser returns the caller's rating for a game, if any.
func (r *RatingRepository) GetByGameAndUser(ctx context.Context, gameID, userID string) (*models.Rating, error) {
	const query = `SELECT id, game_id, user_id, stars, created_at, updated_at FROM ratings WHERE game_id = $1 AND user_id = $2 LIMIT 1`
	var rating models.Rating
	if err := r.db.GetContext(ctx, &rating, query, gameID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rating, nil
}

// Summary returns the average and count of ratings for a game.
func (r *RatingRepository) Summary(ctx context.Context, gameID string) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(stars), 0) AS average_rating, COUNT(*) AS rating_count FROM ratings WHERE game_id = $1`
	var row struct {
		AverageRating float64 `db:"average_rating"`
		RatingCount   int     `db:"rating_count"`
	}
	if err := r.db.GetContext(ctx, &row, query, gameID); err != nil {
		return 0, 0, fmt.Errorf("rating summary: %w", err)
	}
	return row.AverageRating, row.RatingCount, nil
}
