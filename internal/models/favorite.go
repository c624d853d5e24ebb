package models

import "time"

// Favorite marks a game as favorited by a user.
type Favorite struct {
	GameID    string    `db:"game_id" json:"game_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
