package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/storage"
)

type gameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id string) (*models.GameDetail, error)
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
	Delete(ctx context.Context, id string) error
}

type folderMaterializer interface {
	MaterializeFolder(ctx context.Context, name string, files []ArchiveFile) (slug string, playURL string, err error)
}

// gameCachePattern matches every cached catalog payload.
const gameCachePattern = "games:*"

// GameService provides catalog use cases: listings, detail reads, single-game
// uploads and deletions.
type GameService struct {
	repo         gameRepository
	materializer folderMaterializer
	store        storage.FileStore
	cache        *CacheService
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
	cacheTTL     time.Duration
}

// NewGameService constructs a GameService.
func NewGameService(repo gameRepository, materializer folderMaterializer, store storage.FileStore, cache *CacheService, audit auditWriter, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GameService{
		repo:         repo,
		materializer: materializer,
		store:        store,
		cache:        cache,
		audit:        audit,
		validator:    validate,
		logger:       logger,
		cacheTTL:     cacheTTL,
	}
}

type cachedGameList struct {
	Games      []models.Game     `json:"games"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns the catalog page for the given filters, served from cache when
// possible.
func (s *GameService) List(ctx context.Context, filter dto.GameListFilter) ([]models.Game, models.Pagination, error) {
	repoFilter := models.GameFilter{
		Category:  filter.Category,
		Tag:       filter.Tag,
		Search:    filter.Search,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	key := listCacheKey(repoFilter)
	var cached cachedGameList
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Games, cached.Pagination, nil
	}

	games, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list games")
	}
	if games == nil {
		games = []models.Game{}
	}

	page := repoFilter.Page
	if page < 1 {
		page = 1
	}
	pageSize := repoFilter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	pagination := models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}

	if err := s.cache.Set(ctx, key, cachedGameList{Games: games, Pagination: pagination}, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache game list", zap.Error(err))
	}

	return games, pagination, nil
}

// GetDetail returns one game with its rating and comment aggregates.
func (s *GameService) GetDetail(ctx context.Context, id string) (*models.GameDetail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}
	return detail, nil
}

// Create uploads a single game: the archive holds the game files and the
// metadata arrives as form fields.
func (s *GameService) Create(ctx context.Context, req dto.CreateGameRequest, archive []byte, createdBy *string) (*models.Game, error) {
	if strings.TrimSpace(req.Title) == "" {
		req.Title = dto.DefaultGameTitle
	}

	files, err := ExtractFlatArchive(archive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "archive contains no files")
	}

	slug, playURL, err := s.materializer.MaterializeFolder(ctx, req.Title, files)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Tags:          splitTags(req.Tags),
		PlayURL:       playURL,
		LessonTitle:   req.LessonTitle,
		LessonContent: req.LessonContent,
		Quizzes:       models.QuizList{},
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(ctx, game); err != nil {
		if rmErr := s.store.RemoveAll(ctx, slug); rmErr != nil {
			s.logger.Warn("failed to clean up folder after catalog write failure",
				zap.String("folder", slug),
				zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create game")
	}

	if err := s.cache.Invalidate(ctx, gameCachePattern); err != nil {
		s.logger.Warn("failed to invalidate game cache", zap.Error(err))
	}

	s.recordAudit(ctx, createdBy, models.AuditActionGameCreate, game.ID, map[string]string{"title": game.Title})
	return game, nil
}

// Delete removes a game record and its materialized files.
func (s *GameService) Delete(ctx context.Context, id string, actorID *string) error {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load game")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete game")
	}

	if folder := folderFromPlayURL(detail.PlayURL); folder != "" {
		if err := s.store.RemoveAll(ctx, folder); err != nil {
			s.logger.Warn("failed to remove game folder",
				zap.String("folder", folder),
				zap.Error(err))
		}
	}

	if err := s.cache.Invalidate(ctx, gameCachePattern); err != nil {
		s.logger.Warn("failed to invalidate game cache", zap.Error(err))
	}

	s.recordAudit(ctx, actorID, models.AuditActionGameDelete, id, map[string]string{"title": detail.Title})
	return nil
}

func (s *GameService) recordAudit(ctx context.Context, userID *string, action, resourceID string, values map[string]string) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(values)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   "games",
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record game audit log", zap.Error(err))
	}
}

func listCacheKey(filter models.GameFilter) string {
	return fmt.Sprintf("games:list:%s:%s:%s:%d:%d:%s:%s",
		filter.Category, filter.Tag, filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

// folderFromPlayURL derives the storage folder from a play URL of the form
// .../<folder>/index.html.
func folderFromPlayURL(playURL string) string {
	dir := path.Base(path.Dir(playURL))
	if dir == "." || dir == "/" || dir == "" {
		return ""
	}
	return dir
}

func splitTags(raw string) models.StringList {
	tags := models.StringList{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
