package models

import "time"

// Comment is a user comment on a game. Flagged comments stay visible to
// admins for moderation but are hidden from public listings.
type Comment struct {
	ID         string    `db:"id" json:"id"`
	GameID     string    `db:"game_id" json:"game_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Body       string    `db:"body" json:"body"`
	Flagged    bool      `db:"flagged" json:"flagged"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
