package dto

// RateGameRequest submits or replaces the caller's rating for a game.
type RateGameRequest struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}

// CreateCommentRequest posts a comment on a game.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// FlagCommentRequest toggles the moderation flag on a comment.
type FlagCommentRequest struct {
	Flagged bool `json:"flagged"`
}

// SubmitScoreRequest posts a leaderboard score.
type SubmitScoreRequest struct {
	PlayerName string `json:"player_name" validate:"max=64"`
	Score      int64  `json:"score" validate:"min=0"`
}
