package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Quiz is one embedded quiz item on a game.
type Quiz struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

// StringList stores a JSON array of strings in a jsonb column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// QuizList stores the embedded quizzes in a jsonb column.
type QuizList []Quiz

// Value implements driver.Valuer.
func (l QuizList) Value() (driver.Value, error) {
	if l == nil {
		l = QuizList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *QuizList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// Game represents one catalog record of a browser-playable learning game.
type Game struct {
	ID            string     `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Category      string     `db:"category" json:"category"`
	Tags          StringList `db:"tags" json:"tags"`
	PlayURL       string     `db:"play_url" json:"play_url"`
	LessonTitle   string     `db:"lesson_title" json:"lesson_title"`
	LessonContent string     `db:"lesson_content" json:"lesson_content"`
	Quizzes       QuizList   `db:"quizzes" json:"quizzes"`
	CreatedBy     *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// GameDetail enriches a game with aggregates for the detail view.
type GameDetail struct {
	Game
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	RatingCount   int     `db:"rating_count" json:"rating_count"`
	CommentCount  int     `db:"comment_count" json:"comment_count"`
}

// GameFilter captures filtering criteria for listing games.
type GameFilter struct {
	Category  string
	Tag       string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
