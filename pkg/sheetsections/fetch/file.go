package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// FileSource reads a local .csv or .xlsx file.
type FileSource struct {
	// Path is the file to read.
	Path string
	// SheetName selects the tab of a workbook. Empty means the first tab.
	SheetName string
	// ParseOptions controls cell typing.
	ParseOptions parser.ParseOptions
}

// NewFileSource creates a FileSource with default parse options.
func NewFileSource(path, sheetName string) *FileSource {
	return &FileSource{Path: path, SheetName: sheetName, ParseOptions: parser.DefaultParseOptions()}
}

// FileSources returns one source per tab of a workbook, or a single source for
// a CSV file.
func FileSources(path string) ([]Source, error) {
	if !isWorkbook(path) {
		return []Source{NewFileSource(path, "")}, nil
	}
	names, err := parser.SheetNames(path)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, NewFileSource(path, name))
	}
	return sources, nil
}

// Name returns the tab name for workbooks and the file name otherwise.
func (s *FileSource) Name() string {
	if s.SheetName != "" {
		return s.SheetName
	}
	return filepath.Base(s.Path)
}

// Fetch reads and parses the file. ctx is unused.
func (s *FileSource) Fetch(ctx context.Context) (*models.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var table *models.Table
	switch {
	case isWorkbook(s.Path):
		table, err = parser.ParseXLSXReader(f, s.SheetName, s.ParseOptions)
	case strings.EqualFold(filepath.Ext(s.Path), ".csv"):
		table, err = parser.ParseCSV(f, s.ParseOptions)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(s.Path))
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return table, nil
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
