// Package sheetsections loads spreadsheet exports and groups their rows into
// collapsible sections.
package sheetsections

import (
	"log/slog"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// Format represents the representation a sheet is fetched in.
type Format string

const (
	// FormatCSV fetches the CSV export of a sheet tab.
	FormatCSV Format = "csv"
	// FormatXLSX fetches the xlsx export of the spreadsheet and reads one tab.
	FormatXLSX Format = "xlsx"
	// FormatAPI reads cell values through the Sheets API.
	FormatAPI Format = "api"
)

// Options configures loading and grouping behavior.
type Options struct {
	// Format specifies how remote sheets are fetched (csv, xlsx, api).
	Format Format
	// KeepEmptyRows disables removal of fully empty rows before grouping.
	// Kept empty rows act as section gaps.
	KeepEmptyRows bool
	// Classifier holds the header row detection parameters.
	// Zero fields fall back to parser.DefaultClassifierParams.
	Classifier parser.ClassifierParams
	// Concurrency bounds how many sheets LoadWorkbook fetches at once.
	// Zero or less means one at a time.
	Concurrency int
	// IncludeRows specifies whether SheetData carries the grouped rows.
	// If nil, defaults to false.
	IncludeRows *bool
	// Logger receives progress and warnings. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default loading options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatCSV,
		Classifier:  parser.DefaultClassifierParams(),
		Concurrency: 4,
	}
}

// ShouldIncludeRows returns whether to include the grouped rows in SheetData.
func (o Options) ShouldIncludeRows() bool {
	if o.IncludeRows != nil {
		return *o.IncludeRows
	}
	return false
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) concurrency() int {
	if o.Concurrency <= 0 {
		return 1
	}
	return o.Concurrency
}
