package models

import "time"

// ScoreEntry is one submitted leaderboard score. Leaderboards return the top
// entries ordered by score descending; ties keep insertion order.
type ScoreEntry struct {
	ID         string    `db:"id" json:"id"`
	GameID     string    `db:"game_id" json:"game_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Score      int64     `db:"score" json:"score"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
