package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type stubCatalog struct {
	created []models.Game
	failOn  string
}

func (s *stubCatalog) Create(_ context.Context, game *models.Game) error {
	if s.failOn != "" && game.Title == s.failOn {
		return errors.New("insert failed")
	}
	s.created = append(s.created, *game)
	return nil
}

type stubStore struct {
	files      map[string][]byte
	finalized  []string
	removed    []string
	failWrites bool
}

func newStubStore() *stubStore {
	return &stubStore{files: map[string][]byte{}}
}

func (s *stubStore) Write(_ context.Context, p string, data []byte) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	s.files[p] = data
	return nil
}

func (s *stubStore) Finalize(_ context.Context, stagingDir, finalDir string) error {
	for p, data := range s.files {
		if strings.HasPrefix(p, stagingDir+"/") {
			delete(s.files, p)
			s.files[finalDir+strings.TrimPrefix(p, stagingDir)] = data
		}
	}
	s.finalized = append(s.finalized, finalDir)
	return nil
}

func (s *stubStore) RemoveAll(_ context.Context, dir string) error {
	for p := range s.files {
		if p == dir || strings.HasPrefix(p, dir+"/") {
			delete(s.files, p)
		}
	}
	s.removed = append(s.removed, dir)
	return nil
}

func (s *stubStore) ResolveURL(parts ...string) string {
	return "/games/files/" + path.Join(parts...)
}

func (s *stubStore) ListStaging(_ context.Context, _ time.Time) ([]string, error) {
	return nil, nil
}

type stubCacheRepo struct {
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, _ string, _ interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCacheRepo) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

// zipEntry is one named file for buildArchive. Entries are written in slice
// order so tests can pin encounter-order behaviour.
type zipEntry struct {
	name string
	body string
}

func buildArchive(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestImportCorruptArchive(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	_, err := svc.Import(context.Background(), []byte("not a zip"), nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrArchiveCorrupt.Code, appErr.Code)
	assert.Empty(t, catalog.created)
	assert.Empty(t, store.files)
}

func TestImportNoManifests(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"gameone/index.html", "<html></html>"},
		{"gametwo/sprite.png", "png"},
		{"readme.txt", "ignored root file"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Items)
	assert.Empty(t, catalog.created)
	assert.Empty(t, store.files)
}

func TestImportCreatesRecordPerFolder(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html>a</html>"},
		{"beta/metadata.json", `{"title":"Beta"}`},
		{"beta/index.html", "<html>b</html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, catalog.created, 2)

	// Each game lands in its own finalized folder.
	require.Len(t, store.finalized, 2)
	assert.NotEqual(t, store.finalized[0], store.finalized[1])
	for p := range store.files {
		assert.False(t, strings.Contains(p, ".staging"))
	}
}

func TestImportPreservesEncounterOrder(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"zebra/metadata.json", `{"title":"Zebra"}`},
		{"zebra/index.html", "<html></html>"},
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Zebra", result.Items[0].Title)
	assert.Equal(t, "Alpha", result.Items[1].Title)
	require.Len(t, catalog.created, 2)
	assert.Equal(t, "Zebra", catalog.created[0].Title)
}

func TestImportNestedFolderManifest(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"pack/math/metadata.json", `{"title":"Math"}`},
		{"pack/math/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, catalog.created, 1)
	assert.Equal(t, "Math", catalog.created[0].Title)
	assert.True(t, strings.HasPrefix(catalog.created[0].PlayURL, "/games/files/pack-math-"))
}

func TestImportDuplicateFolderManifests(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	// ZIP files may carry the same name twice; each manifest is its own game.
	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"First"}`},
		{"alpha/index.html", "<html></html>"},
		{"alpha/metadata.json", `{"title":"Second"}`},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, catalog.created, 2)
	assert.Equal(t, "First", catalog.created[0].Title)
	assert.Equal(t, "Second", catalog.created[1].Title)
	assert.NotEqual(t, catalog.created[0].PlayURL, catalog.created[1].PlayURL)
}

func TestImportBrokenManifestIsolated(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"broken/metadata.json", `{"title": "no closing brace"`},
		{"broken/index.html", "<html></html>"},
		{"good/metadata.json", `{"title":"Good"}`},
		{"good/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, catalog.created, 1)
	assert.Equal(t, "Good", catalog.created[0].Title)

	// Nothing from the broken folder was written.
	for p := range store.files {
		assert.False(t, strings.HasPrefix(p, "broken"))
	}
}

func TestImportManifestDefaults(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"bare/metadata.json", `{}`},
		{"bare/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	game := catalog.created[0]
	assert.Equal(t, "Untitled", game.Title)
	assert.NotNil(t, game.Tags)
	assert.Empty(t, game.Tags)
	assert.NotNil(t, game.Quizzes)
	assert.Empty(t, game.Quizzes)
}

func TestImportMathGameScenario(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	manifest := `{
		"title": "Math Blaster",
		"description": "Practice arithmetic",
		"category": "math",
		"tags": ["arithmetic", "speed"],
		"lessonTitle": "Addition basics",
		"lessonContent": "Adding single digits",
		"quizzes": [
			{"question": "2+2?", "options": ["3", "4", "5"], "answerIndex": 1}
		]
	}`
	archive := buildArchive(t, []zipEntry{
		{"mathgame/metadata.json", manifest},
		{"mathgame/index.html", "<html>game</html>"},
		{"mathgame/assets/sprite.png", "png bytes"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	game := catalog.created[0]
	assert.Equal(t, "Math Blaster", game.Title)
	assert.Equal(t, "math", game.Category)
	assert.Equal(t, models.StringList{"arithmetic", "speed"}, game.Tags)
	require.Len(t, game.Quizzes, 1)
	assert.Equal(t, 1, game.Quizzes[0].AnswerIndex)
	assert.Equal(t, []string{"3", "4", "5"}, game.Quizzes[0].Options)
	assert.True(t, strings.HasSuffix(game.PlayURL, "/index.html"))
	assert.True(t, strings.HasPrefix(game.PlayURL, "/games/files/mathgame-"))

	// Nested asset paths survive materialization.
	found := false
	for p := range store.files {
		if strings.HasSuffix(p, "/assets/sprite.png") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestImportTwiceCreatesDistinctFolders(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html></html>"},
	})

	_, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)

	require.Len(t, catalog.created, 2)
	assert.NotEqual(t, catalog.created[0].PlayURL, catalog.created[1].PlayURL)
	require.Len(t, store.finalized, 2)
	assert.NotEqual(t, store.finalized[0], store.finalized[1])
}

func TestImportWriteFailureAbsorbed(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	store.failWrites = true
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, catalog.created)
	// The staging folder was cleaned up.
	assert.NotEmpty(t, store.removed)
}

func TestImportCatalogFailureCleansFolder(t *testing.T) {
	catalog := &stubCatalog{failOn: "Alpha"}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html></html>"},
		{"beta/metadata.json", `{"title":"Beta"}`},
		{"beta/index.html", "<html></html>"},
	})

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "Beta", catalog.created[0].Title)
	assert.NotEmpty(t, store.removed)
}

func TestImportPreviewCapped(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	svc := NewImportService(catalog, store, nil, nil, nil, 2)

	entries := []zipEntry{}
	for _, name := range []string{"one", "two", "three", "four"} {
		entries = append(entries,
			zipEntry{name + "/metadata.json", `{"title":"` + name + `"}`},
			zipEntry{name + "/index.html", "<html></html>"},
		)
	}
	archive := buildArchive(t, entries)

	result, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Created)
	assert.Len(t, result.Items, 2)
}

func TestImportInvalidatesGameListCache(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewImportService(catalog, store, cache, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"alpha/metadata.json", `{"title":"Alpha"}`},
		{"alpha/index.html", "<html></html>"},
	})

	_, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, gameCachePattern)
}

func TestImportWithoutCreationsKeepsCache(t *testing.T) {
	catalog := &stubCatalog{}
	store := newStubStore()
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewImportService(catalog, store, cache, nil, nil, 20)

	archive := buildArchive(t, []zipEntry{
		{"gameone/index.html", "<html></html>"},
	})

	_, err := svc.Import(context.Background(), archive, nil)
	require.NoError(t, err)
	assert.Empty(t, cacheRepo.deleted)
}
