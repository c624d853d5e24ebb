package dto

import "github.com/playshelf/playshelf-api/internal/models"

// GameManifest mirrors the metadata.json file found in each game folder of an
// uploaded archive. Every field is optional; defaults are applied once when
// the catalog record is built.
type GameManifest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Tags          []string       `json:"tags"`
	LessonTitle   string         `json:"lessonTitle"`
	LessonContent string         `json:"lessonContent"`
	Quizzes       []QuizManifest `json:"quizzes"`
}

// QuizManifest is one quiz item inside metadata.json.
type QuizManifest struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

// DefaultGameTitle is used when a manifest omits the title.
const DefaultGameTitle = "Untitled"

// ToGame converts the manifest into a catalog record, filling defaults for
// missing optional fields. The play URL is attached by the caller once the
// folder's files are materialized.
func (m GameManifest) ToGame() models.Game {
	game := models.Game{
		Title:         m.Title,
		Description:   m.Description,
		Category:      m.Category,
		Tags:          models.StringList{},
		LessonTitle:   m.LessonTitle,
		LessonContent: m.LessonContent,
		Quizzes:       models.QuizList{},
	}
	if game.Title == "" {
		game.Title = DefaultGameTitle
	}
	if len(m.Tags) > 0 {
		game.Tags = append(game.Tags, m.Tags...)
	}
	for _, quiz := range m.Quizzes {
		options := make([]string, 0, len(quiz.Options))
		options = append(options, quiz.Options...)
		game.Quizzes = append(game.Quizzes, models.Quiz{
			Question:    quiz.Question,
			Options:     options,
			AnswerIndex: quiz.AnswerIndex,
		})
	}
	return game
}
