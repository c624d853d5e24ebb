package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/playshelf/playshelf-api/internal/models"
)

// GameRepository handles catalog record persistence.
type GameRepository struct {
	db *sqlx.DB
}

// NewGameRepository constructs the repository.
func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, title, description, category, tags, play_url, lesson_title, lesson_content, quizzes, created_by, created_at, updated_at`

// Create inserts one catalog record. Each insert is atomic on its own; the
// import pipeline relies on that and never opens a cross-record transaction.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	game.UpdatedAt = now
	if game.Tags == nil {
		game.Tags = models.StringList{}
	}
	if game.Quizzes == nil {
		game.Quizzes = models.QuizList{}
	}

	const query = `INSERT INTO games (` + gameColumns + `)
	VALUES (:id, :title, :description, :category, :tags, :play_url, :lesson_title, :lesson_content, :quizzes, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, game); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// GetByID retrieves one game with rating and comment aggregates.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.GameDetail, error) {
	const query = `SELECT g.` + "id, g.title, g.description, g.category, g.tags, g.play_url, g.lesson_title, g.lesson_content, g.quizzes, g.created_by, g.created_at, g.updated_at" + `,
	       COALESCE(AVG(r.stars), 0) AS average_rating,
	       COUNT(DISTINCT r.id) AS rating_count,
	       COUNT(DISTINCT c.id) FILTER (WHERE NOT c.flagged) AS comment_count
	FROM games g
	LEFT JOIN ratings r ON r.game_id = g.id
	LEFT JOIN comments c ON c.game_id = g.id
	WHERE g.id = $1
	GROUP BY g.id`
	var detail models.GameDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns games applying filters with a total count for pagination.
func (r *GameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
	baseQuery := `FROM games WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("tags @> $%d", len(args)+1))
		args = append(args, fmt.Sprintf(`["%s"]`, filter.Tag))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":      true,
		"category":   true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		gameColumns, baseQuery, sortBy, sortOrder, pageSize, offset)
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	return games, total, nil
}

// Delete removes one game. Dependent rows cascade at the schema level.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM games WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check game delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountGames returns the catalog size for the dashboard.
func (r *GameRepository) CountGames(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM games`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return count, nil
}

// TopRated returns the highest-rated games for dashboard previews.
func (r *GameRepository) TopRated(ctx context.Context, limit int) ([]models.RatedGame, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT g.id, g.title, g.category,
	       COALESCE(AVG(r.stars), 0) AS average_rating,
	       COUNT(r.id) AS rating_count
	FROM games g
	LEFT JOIN ratings r ON r.game_id = g.id
	GROUP BY g.id
	ORDER BY average_rating DESC, rating_count DESC
	LIMIT $1`
	var rated []models.RatedGame
	if err := r.db.SelectContext(ctx, &rated, query, limit); err != nil {
		return nil, fmt.Errorf("top rated games: %w", err)
	}
	return rated, nil
}
