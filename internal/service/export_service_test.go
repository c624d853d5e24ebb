package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type stubExportRepo struct {
	games []models.Game
}

func (s *stubExportRepo) List(_ context.Context, _ models.GameFilter) ([]models.Game, int, error) {
	return s.games, len(s.games), nil
}

func TestGamesReportCSV(t *testing.T) {
	repo := &stubExportRepo{games: []models.Game{
		{Title: "Math Blaster", Category: "math", Tags: models.StringList{"arithmetic"}, CreatedAt: time.Now()},
	}}
	svc := NewExportService(repo, nil)

	payload, contentType, filename, err := svc.GamesReport(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	body := string(payload)
	assert.Contains(t, body, "Title,Category,Tags")
	assert.Contains(t, body, "Math Blaster")
}

func TestGamesReportPDF(t *testing.T) {
	repo := &stubExportRepo{games: []models.Game{{Title: "Math Blaster", CreatedAt: time.Now()}}}
	svc := NewExportService(repo, nil)

	payload, contentType, filename, err := svc.GamesReport(context.Background(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestGamesReportUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubExportRepo{}, nil)

	_, _, _, err := svc.GamesReport(context.Background(), ExportFormat("xml"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
