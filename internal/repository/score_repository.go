package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/playshelf/playshelf-api/internal/models"
)

// ScoreRepository handles leaderboard score entries.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository constructs the repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Create appends a score entry. Every submission is kept; leaderboard reads
// select the top slice.
func (r *ScoreRepository) Create(ctx context.Context, entry *models.ScoreEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO scores (id, game_id, user_id, player_name, score, created_at) VALUES (:id, :game_id, :user_id, :player_name, :score, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create score: %w", err)
	}
	return nil
}

// TopByGame returns the highest scores for a game, score descending. Ties
// keep insertion order.
func (r *ScoreRepository) TopByGame(ctx context.Context, gameID string, limit int) ([]models.ScoreEntry, error) {
	const query = `SELECT id, game_id, user_id, player_name, score, created_at
	FROM scores WHERE game_id = $1
	ORDER BY score DESC, created_at ASC, id ASC
	LIMIT $2`
	var entries []models.ScoreEntry
	if err := r.db.SelectContext(ctx, &entries, query, gameID, limit); err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	return entries, nil
}

// CountScores returns the total number of score submissions.
func (r *ScoreRepository) CountScores(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM scores`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}
