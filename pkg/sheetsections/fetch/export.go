package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// DefaultMaxExportSize caps the export body read into memory.
const DefaultMaxExportSize = 64 << 20

// ExportSource reads a sheet tab through the spreadsheet export endpoint.
type ExportSource struct {
	// SpreadsheetID is the id from the spreadsheet URL.
	SpreadsheetID string
	// SheetGID is the tab id; "0" is the first tab.
	SheetGID string
	// Format is "csv" (default) or "xlsx".
	Format string
	// SheetName selects the tab of an xlsx export. Empty means the first tab.
	SheetName string
	// Label overrides the name reported by Name.
	Label string
	// BaseURL replaces DefaultBaseURL.
	BaseURL string
	// Client performs the requests. If nil, a RetryClient is used.
	Client HTTPDoer
	// Cache stores raw export bodies for CacheTTL. If nil, nothing is cached.
	Cache    Cache
	CacheTTL time.Duration
	// ParseOptions controls cell typing.
	ParseOptions parser.ParseOptions
	// MaxBytes rejects larger export bodies. Zero means DefaultMaxExportSize.
	MaxBytes int64
	// Logger receives fetch progress. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewExportSource creates a CSV ExportSource with default parse options.
func NewExportSource(spreadsheetID, gid string) *ExportSource {
	return &ExportSource{
		SpreadsheetID: spreadsheetID,
		SheetGID:      gid,
		Format:        "csv",
		ParseOptions:  parser.DefaultParseOptions(),
	}
}

// Name returns the label, the xlsx tab name or "gid <gid>".
func (s *ExportSource) Name() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.format() == "xlsx" && s.SheetName != "":
		return s.SheetName
	default:
		return "gid " + s.SheetGID
	}
}

// GID returns the tab id of the source.
func (s *ExportSource) GID() string {
	return s.SheetGID
}

// URL returns the export URL the source downloads.
func (s *ExportSource) URL() string {
	return ExportURL(s.BaseURL, s.SpreadsheetID, s.format(), s.SheetGID)
}

// Fetch downloads the export, using the cache when configured, and parses it.
func (s *ExportSource) Fetch(ctx context.Context) (*models.Table, error) {
	body, err := s.download(ctx)
	if err != nil {
		return nil, err
	}

	var table *models.Table
	if s.format() == "xlsx" {
		table, err = parser.ParseXLSXReader(bytes.NewReader(body), s.SheetName, s.ParseOptions)
	} else {
		table, err = parser.ParseCSV(bytes.NewReader(body), s.ParseOptions)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return table, nil
}

func (s *ExportSource) download(ctx context.Context) ([]byte, error) {
	logger := s.logger()
	u := s.URL()
	key := "export:" + u

	if s.Cache != nil {
		body, ok, err := s.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("export cache read failed", slog.String("url", u), slog.Any("error", err))
		case ok:
			logger.Debug("export cache hit", slog.String("url", u), slog.Int("bytes", len(body)))
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType == "text/html" {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %w", u, ErrNotShared)
	}

	limit := s.maxBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, &ParseError{Err: fmt.Errorf("%w: %s is larger than %d bytes", ErrExportTooLarge, u, limit)}
	}
	logger.Info("fetched export",
		slog.String("url", u),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)),
	)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, body, s.CacheTTL); err != nil {
			logger.Warn("export cache write failed", slog.String("url", u), slog.Any("error", err))
		}
	}
	return body, nil
}

func (s *ExportSource) format() string {
	if s.Format == "" {
		return "csv"
	}
	return s.Format
}

func (s *ExportSource) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxExportSize
}

func (s *ExportSource) client() HTTPDoer {
	if s.Client != nil {
		return s.Client
	}
	return NewRetryClient(nil, 3, s.logger())
}

func (s *ExportSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
