package dto

import "github.com/playshelf/playshelf-api/internal/models"

// CreateGameRequest carries form metadata submitted alongside a single-game
// ZIP upload.
type CreateGameRequest struct {
	Title         string `form:"title" json:"title"`
	Description   string `form:"description" json:"description"`
	Category      string `form:"category" json:"category"`
	Tags          string `form:"tags" json:"tags"`
	LessonTitle   string `form:"lessonTitle" json:"lessonTitle"`
	LessonContent string `form:"lessonContent" json:"lessonContent"`
}

// GameListFilter captures query parameters for catalog listings.
type GameListFilter struct {
	Category  string `form:"category"`
	Tag       string `form:"tag"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort"`
	SortOrder string `form:"order"`
}

// ImportResult summarises a bulk archive import. Items holds a truncated
// preview of the created records in manifest-encounter order; Created is the
// full count. Skipped counts folders dropped for broken manifests or write
// failures and feeds metrics without widening the response body.
type ImportResult struct {
	Created int           `json:"created"`
	Items   []models.Game `json:"items"`
	Skipped int           `json:"-"`
}
