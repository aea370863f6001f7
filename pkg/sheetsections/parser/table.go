package parser

import (
	"strconv"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// ParseOptions configures how raw cell texts become row values.
type ParseOptions struct {
	// DynamicTyping converts booleans and numbers and turns empty cells into nil.
	// When false every present cell stays a string.
	DynamicTyping bool
}

// DefaultParseOptions returns default parse options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{DynamicTyping: true}
}

// BuildTable turns a header line and raw records into a Table.
//
// Duplicate column names get a numeric suffix ("Name", "Name_1", ...). Records
// shorter than the header leave the remaining columns absent; fields beyond the
// header are dropped.
func BuildTable(header []string, records [][]string, opts ParseOptions) *models.Table {
	columns := uniqueColumns(header)
	rows := make([]models.Row, 0, len(records))
	for _, record := range records {
		row := make(models.Row, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			if opts.DynamicTyping {
				row[columns[i]] = coerceValue(cell)
			} else {
				row[columns[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return &models.Table{Columns: columns, Rows: rows}
}

// uniqueColumns renames repeated header names so every column key is distinct.
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		seen[candidate] = true
		columns[i] = candidate
	}
	return columns
}
