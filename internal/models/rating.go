package models

import "time"

// Rating is one user's rating of a game. One row per (game, user); a repeat
// rating overwrites the previous one.
type Rating struct {
	ID        string    `db:"id" json:"id"`
	GameID    string    `db:"game_id" json:"game_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Stars     int       `db:"stars" json:"stars"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
