package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/playshelf/playshelf-api/internal/models"
)

// FavoriteRepository handles per-user game favorites.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository constructs the repository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a game as favorited. Re-favoriting is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, gameID, userID string) error {
	const query = `INSERT INTO favorites (game_id, user_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (game_id, user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, gameID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove unfavorites a game.
func (r *FavoriteRepository) Remove(ctx context.Context, gameID, userID string) error {
	const query = `DELETE FROM favorites WHERE game_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, gameID, userID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check favorite delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns the games a user has favorited, most recent first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Game, error) {
	const query = `SELECT g.id, g.title, g.description, g.category, g.tags, g.play_url, g.lesson_title, g.lesson_content, g.quizzes, g.created_by, g.created_at, g.updated_at
	FROM favorites f
	JOIN games g ON g.id = f.game_id
	WHERE f.user_id = $1
	ORDER BY f.created_at DESC`
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return games, nil
}
