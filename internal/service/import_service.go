package service

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/storage"
)

// ManifestFileName is the metadata file expected inside each game folder of a
// bulk archive. Folders without it are skipped.
const ManifestFileName = "metadata.json"

// ArchiveFile is one extracted file, path relative to its game folder.
type ArchiveFile struct {
	Path string
	Data []byte
}

// archiveGame pairs one manifest entry with its folder's assets. Games are
// produced in the order their manifests appear in the archive; two manifests
// under the same folder each yield their own game.
type archiveGame struct {
	Folder   string
	Manifest []byte
	Assets   []ArchiveFile
}

type catalogWriter interface {
	Create(ctx context.Context, game *models.Game) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ImportService runs the bulk archive pipeline: read the ZIP, parse each
// folder's manifest, materialize the folder's files, then write the catalog
// record. A failure in one folder never aborts the others; only an unreadable
// archive fails the whole request.
type ImportService struct {
	games       catalogWriter
	store       storage.FileStore
	cache       *CacheService
	audit       auditWriter
	logger      *zap.Logger
	previewSize int
}

// NewImportService constructs an ImportService.
func NewImportService(games catalogWriter, store storage.FileStore, cache *CacheService, audit auditWriter, logger *zap.Logger, previewSize int) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if previewSize <= 0 {
		previewSize = 20
	}
	return &ImportService{games: games, store: store, cache: cache, audit: audit, logger: logger, previewSize: previewSize}
}

// Import processes an uploaded archive and returns the count of created games
// plus a truncated preview in manifest-encounter order. Folders with broken
// manifest JSON or whose files fail to write are skipped with a warning and
// counted on the result.
func (s *ImportService) Import(ctx context.Context, archive []byte, createdBy *string) (*dto.ImportResult, error) {
	entries, err := readArchive(archive)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Items: []models.Game{}}
	for _, entry := range entries {
		game, err := s.importGame(ctx, entry, createdBy)
		if err != nil {
			s.logger.Warn("skipping game folder",
				zap.String("folder", entry.Folder),
				zap.Error(err))
			result.Skipped++
			continue
		}
		result.Created++
		if len(result.Items) < s.previewSize {
			result.Items = append(result.Items, *game)
		}
	}

	if result.Created > 0 {
		if err := s.cache.Invalidate(ctx, gameCachePattern); err != nil {
			s.logger.Warn("failed to invalidate game list cache after import", zap.Error(err))
		}
	}

	if s.audit != nil && createdBy != nil {
		payload, _ := json.Marshal(map[string]int{"created": result.Created})
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:    createdBy,
			Action:    models.AuditActionGameImport,
			Resource:  "games",
			NewValues: payload,
		}); err != nil {
			s.logger.Warn("failed to record import audit log", zap.Error(err))
		}
	}

	return result, nil
}

// importGame handles one manifest end to end.
func (s *ImportService) importGame(ctx context.Context, entry archiveGame, createdBy *string) (*models.Game, error) {
	var manifest dto.GameManifest
	if err := json.Unmarshal(entry.Manifest, &manifest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "manifest is not valid JSON")
	}

	slug, playURL, err := s.MaterializeFolder(ctx, entry.Folder, entry.Assets)
	if err != nil {
		return nil, err
	}

	game := manifest.ToGame()
	game.PlayURL = playURL
	game.CreatedBy = createdBy
	if err := s.games.Create(ctx, &game); err != nil {
		if rmErr := s.store.RemoveAll(ctx, slug); rmErr != nil {
			s.logger.Warn("failed to clean up folder after catalog write failure",
				zap.String("folder", slug),
				zap.Error(rmErr))
		}
		return nil, err
	}
	return &game, nil
}

// MaterializeFolder writes a game folder's files through the two-phase
// staging flow and returns the permanent folder slug and play URL. Each call
// gets a fresh random token so repeated imports never collide.
func (s *ImportService) MaterializeFolder(ctx context.Context, name string, files []ArchiveFile) (slug string, playURL string, err error) {
	token, err := randomToken()
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate folder token")
	}
	slug = slugify(name) + "-" + token
	stagingDir := slug + storage.StagingSuffix

	for _, f := range files {
		if err := s.store.Write(ctx, path.Join(stagingDir, f.Path), f.Data); err != nil {
			if rmErr := s.store.RemoveAll(ctx, stagingDir); rmErr != nil {
				s.logger.Warn("failed to clean up staging folder",
					zap.String("folder", stagingDir),
					zap.Error(rmErr))
			}
			return "", "", appErrors.Wrap(err, appErrors.ErrWriteFailed.Code, appErrors.ErrWriteFailed.Status, appErrors.ErrWriteFailed.Message)
		}
	}

	if err := s.store.Finalize(ctx, stagingDir, slug); err != nil {
		if rmErr := s.store.RemoveAll(ctx, stagingDir); rmErr != nil {
			s.logger.Warn("failed to clean up staging folder",
				zap.String("folder", stagingDir),
				zap.Error(rmErr))
		}
		return "", "", appErrors.Wrap(err, appErrors.ErrWriteFailed.Code, appErrors.ErrWriteFailed.Status, appErrors.ErrWriteFailed.Message)
	}

	return slug, s.store.ResolveURL(slug, "index.html"), nil
}

// readArchive opens the ZIP and scans its entries once, in order. Every file
// named metadata.json marks a game; its folder is the path up to the
// filename, at any depth, and its assets are the other files under that
// folder. Files at the archive root are ignored.
func readArchive(archive []byte) ([]archiveGame, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
	}

	files := make([]ArchiveFile, 0, len(reader.File))
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		clean := path.Clean(entry.Name)
		if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
		}

		files = append(files, ArchiveFile{Path: clean, Data: data})
	}

	games := make([]archiveGame, 0)
	for i, f := range files {
		if path.Base(f.Path) != ManifestFileName {
			continue
		}
		folder := path.Dir(f.Path)
		if folder == "." {
			continue
		}
		prefix := folder + "/"

		assets := make([]ArchiveFile, 0)
		for j, other := range files {
			if j == i || !strings.HasPrefix(other.Path, prefix) {
				continue
			}
			rel := strings.TrimPrefix(other.Path, prefix)
			// The folder's own manifest never materializes; deeper
			// metadata.json files are plain assets here.
			if rel == ManifestFileName {
				continue
			}
			assets = append(assets, ArchiveFile{Path: rel, Data: other.Data})
		}
		games = append(games, archiveGame{Folder: folder, Manifest: f.Data, Assets: assets})
	}
	return games, nil
}

// ExtractFlatArchive reads a ZIP whose files all belong to a single game.
// Leading directory levels shared by every entry are preserved as-is.
func ExtractFlatArchive(archive []byte) ([]ArchiveFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
	}

	files := make([]ArchiveFile, 0, len(reader.File))
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		clean := path.Clean(entry.Name)
		if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrArchiveCorrupt.Code, appErrors.ErrArchiveCorrupt.Status, appErrors.ErrArchiveCorrupt.Message)
		}
		files = append(files, ArchiveFile{Path: clean, Data: data})
	}
	return files, nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "game"
	}
	return slug
}

func randomToken() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
