package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
	"github.com/playshelf/playshelf-api/pkg/export"
)

type exportGameRepository interface {
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
}

// ExportFormat identifies the supported report encodings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportService renders catalog reports for admins.
type ExportService struct {
	games  exportGameRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(games exportGameRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		games:  games,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// GamesReport renders the full catalog as CSV or PDF and returns the bytes,
// content type and suggested filename.
func (s *ExportService) GamesReport(ctx context.Context, format ExportFormat) ([]byte, string, string, error) {
	games, _, err := s.games.List(ctx, models.GameFilter{Page: 1, PageSize: 100, SortBy: "title", SortOrder: "ASC"})
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load games for report")
	}

	data := export.Dataset{
		Title:   "Game Catalog",
		Headers: []string{"Title", "Category", "Tags", "Quizzes", "Created At"},
		Rows:    make([][]string, 0, len(games)),
	}
	for _, game := range games {
		data.Rows = append(data.Rows, []string{
			game.Title,
			game.Category,
			strings.Join(game.Tags, ", "),
			strconv.Itoa(len(game.Quizzes)),
			game.CreatedAt.Format(time.RFC3339),
		})
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", fmt.Sprintf("games-%s.csv", stamp), nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(data)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", fmt.Sprintf("games-%s.pdf", stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
