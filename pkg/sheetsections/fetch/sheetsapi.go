package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// SheetsAPISource reads a range of a spreadsheet through the Sheets API v4.
// The first row of the range is the header line.
type SheetsAPISource struct {
	spreadsheetID string
	readRange     string
	service       *sheets.Service
	parseOptions  parser.ParseOptions
	logger        *slog.Logger
}

// NewSheetsAPISource creates a source for readRange, usually a tab title.
// Pass option.WithAPIKey for public spreadsheets.
func NewSheetsAPISource(ctx context.Context, spreadsheetID, readRange string, logger *slog.Logger, opts ...option.ClientOption) (*SheetsAPISource, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsAPISource{
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		service:       service,
		parseOptions:  parser.DefaultParseOptions(),
		logger:        logger,
	}, nil
}

// Name returns the range the source reads.
func (s *SheetsAPISource) Name() string {
	return s.readRange
}

// Fetch reads the formatted cell values of the range.
func (s *SheetsAPISource) Fetch(ctx context.Context) (*models.Table, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{URL: "sheets.values.get " + s.readRange, StatusCode: apiErr.Code}
		}
		return nil, fmt.Errorf("get values: %w", err)
	}
	s.logger.Info("fetched sheet values",
		slog.String("spreadsheet_id", s.spreadsheetID),
		slog.String("range", resp.Range),
		slog.Int("rows", len(resp.Values)),
	)

	if len(resp.Values) == 0 {
		return &models.Table{Columns: []string{}, Rows: []models.Row{}}, nil
	}
	header := cellTexts(resp.Values[0])
	records := make([][]string, 0, len(resp.Values)-1)
	for _, values := range resp.Values[1:] {
		records = append(records, cellTexts(values))
	}
	return parser.BuildTable(header, records, s.parseOptions), nil
}

// cellTexts formats API cell values the way a CSV export renders them.
func cellTexts(values []interface{}) []string {
	texts := make([]string, len(values))
	for i, v := range values {
		texts[i] = parser.CellString(v)
	}
	return texts
}
