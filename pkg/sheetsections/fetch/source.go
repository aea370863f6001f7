// Package fetch retrieves sheet data from Google Sheets exports, the Sheets API
// and local files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// DefaultBaseURL is the host serving spreadsheet exports.
const DefaultBaseURL = "https://docs.google.com"

// ErrNotShared indicates the export answered with a sign-in page instead of
// sheet data, which happens when the spreadsheet is not shared publicly.
var ErrNotShared = errors.New("spreadsheet is not shared publicly")

// ErrExportTooLarge indicates an export body larger than the source accepts.
var ErrExportTooLarge = errors.New("export exceeds size limit")

// Source yields the parsed table of one sheet tab.
type Source interface {
	// Name identifies the sheet in output and logs.
	Name() string
	// Fetch retrieves and parses the sheet.
	Fetch(ctx context.Context) (*models.Table, error)
}

// Cache stores raw export bodies keyed by URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// StatusError reports a non-success HTTP status from an export or API call.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// ParseError marks a failure to parse data that was fetched successfully.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse sheet data: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportURL builds the export URL of a spreadsheet. The gid selects the tab of
// a CSV export; xlsx exports always contain every tab.
func ExportURL(baseURL, spreadsheetID, format, gid string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("format", format)
	if format == "csv" && gid != "" {
		q.Set("gid", gid)
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s", baseURL, url.PathEscape(spreadsheetID), q.Encode())
}
