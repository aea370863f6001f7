// Package sources builds sheet sources from configuration.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
)

// ErrNoSheet indicates that no spreadsheet id is configured.
var ErrNoSheet = errors.New("no spreadsheet id configured")

// FromConfig returns one source per configured tab of cfg.Sheet.
//
// CSV exports use one source per gid, labelled with the tab name at the same
// position when tabs are given. Xlsx exports and the Sheets API read tabs by
// name; xlsx without tabs reads the first tab.
func FromConfig(ctx context.Context, cfg *config.Config, cache fetch.Cache, logger *slog.Logger) ([]fetch.Source, error) {
	sheet := cfg.Sheet
	if sheet.ID == "" {
		return nil, ErrNoSheet
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := fetch.NewRetryClient(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch.MaxRetries, logger)

	var result []fetch.Source
	switch sheet.Format {
	case "csv", "":
		for i, gid := range sheet.GIDs {
			src := newExportSource(cfg, client, cache, logger)
			src.SheetGID = gid
			src.Label = at(sheet.Tabs, i)
			result = append(result, src)
		}
	case "xlsx":
		tabs := sheet.Tabs
		if len(tabs) == 0 {
			tabs = []string{""}
		}
		for i, tab := range tabs {
			src := newExportSource(cfg, client, cache, logger)
			src.Format = "xlsx"
			src.SheetName = tab
			src.SheetGID = at(sheet.GIDs, i)
			result = append(result, src)
		}
	case "api":
		if len(sheet.Tabs) == 0 {
			return nil, fmt.Errorf("sheet format api needs at least one tab name")
		}
		for _, tab := range sheet.Tabs {
			src, err := fetch.NewSheetsAPISource(ctx, sheet.ID, tab, logger, option.WithAPIKey(sheet.APIKey))
			if err != nil {
				return nil, err
			}
			result = append(result, src)
		}
	default:
		return nil, fmt.Errorf("unknown sheet format %q", sheet.Format)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no sheet tabs configured")
	}
	return result, nil
}

func newExportSource(cfg *config.Config, client fetch.HTTPDoer, cache fetch.Cache, logger *slog.Logger) *fetch.ExportSource {
	src := fetch.NewExportSource(cfg.Sheet.ID, "")
	src.BaseURL = cfg.Fetch.BaseURL
	src.Client = client
	src.Cache = cache
	src.CacheTTL = cfg.Cache.TTL
	src.Logger = logger
	return src
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
