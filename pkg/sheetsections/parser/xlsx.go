package parser

import (
	"fmt"
	"io"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX extracts a Table from a sheet of an open workbook.
// An empty sheetName selects the first sheet.
func ParseXLSX(f *excelize.File, sheetName string, opts ParseOptions) (*models.Table, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &models.Table{Columns: []string{}, Rows: []models.Row{}}, nil
	}

	// GetRows trims trailing empty cells; pad records to the header width so
	// blank cells read as nil rather than absent, as in a CSV export.
	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		records = append(records, row)
	}

	return BuildTable(header, records, opts), nil
}

// ParseXLSXReader opens a workbook from r and extracts a Table from sheetName.
func ParseXLSXReader(r io.Reader, sheetName string, opts ParseOptions) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return ParseXLSX(f, sheetName, opts)
}

// SheetNames lists the sheets of the workbook at path.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
