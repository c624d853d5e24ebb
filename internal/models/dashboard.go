package models

import "time"

// DashboardSummary aggregates counters for the admin dashboard.
type DashboardSummary struct {
	TotalGames      int         `json:"total_games"`
	TotalUsers      int         `json:"total_users"`
	TotalComments   int         `json:"total_comments"`
	FlaggedComments int         `json:"flagged_comments"`
	TotalScores     int         `json:"total_scores"`
	TopRated        []RatedGame `json:"top_rated"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// RatedGame pairs a game with its rating aggregate for dashboard previews.
type RatedGame struct {
	ID            string  `db:"id" json:"id"`
	Title         string  `db:"title" json:"title"`
	Category      string  `db:"category" json:"category"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	RatingCount   int     `db:"rating_count" json:"rating_count"`
}
