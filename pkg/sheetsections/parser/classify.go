package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// ClassifierParams holds parameters for header row detection.
type ClassifierParams struct {
	// MarkerColumn is the name of the column that repeats its own label on header
	// rows. It is matched trimmed and case-insensitively.
	MarkerColumn string
	// MarkerValue is the literal cell text a header row carries in MarkerColumn.
	// It is matched exactly.
	MarkerValue string
	// DensityWindow is how many leading columns the density check looks at.
	DensityWindow int
	// DensityMin is how many of those columns must be populated.
	DensityMin int
}

// DefaultClassifierParams returns default header detection parameters.
func DefaultClassifierParams() ClassifierParams {
	return ClassifierParams{
		MarkerColumn:  "figur idé",
		MarkerValue:   "Figur Idé",
		DensityWindow: 6,
		DensityMin:    3,
	}
}

// Classifier decides whether rows are empty or section header rows.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	params    ClassifierParams
	markerKey string
}

// NewClassifier creates a Classifier. Zero fields fall back to the defaults.
func NewClassifier(params ClassifierParams) *Classifier {
	def := DefaultClassifierParams()
	if params.MarkerColumn == "" {
		params.MarkerColumn = def.MarkerColumn
	}
	if params.MarkerValue == "" {
		params.MarkerValue = def.MarkerValue
	}
	if params.DensityWindow <= 0 {
		params.DensityWindow = def.DensityWindow
	}
	if params.DensityMin <= 0 {
		params.DensityMin = def.DensityMin
	}
	return &Classifier{
		params:    params,
		markerKey: columnKey(params.MarkerColumn),
	}
}

// Params returns the parameters the classifier was built with.
func (c *Classifier) Params() ClassifierParams {
	return c.params
}

var defaultClassifier = NewClassifier(DefaultClassifierParams())

// IsRowEmpty reports whether every column of row is absent, nil or blank.
// A nil row, and any row checked against no columns, is empty.
func IsRowEmpty(row models.Row, columns []string) bool {
	return defaultClassifier.IsRowEmpty(row, columns)
}

// IsHeaderRow reports whether row starts a section under the default parameters.
func IsHeaderRow(row models.Row, columns []string) bool {
	return defaultClassifier.IsHeaderRow(row, columns)
}

// IsRowEmpty reports whether every column of row is absent, nil or blank.
func (c *Classifier) IsRowEmpty(row models.Row, columns []string) bool {
	if row == nil {
		return true
	}
	for _, col := range columns {
		if !IsBlank(row[col]) {
			return false
		}
	}
	return true
}

// IsHeaderRow reports whether row is a section header row: it is not empty, the
// marker column holds exactly the marker value, and enough of the leading
// columns are populated.
func (c *Classifier) IsHeaderRow(row models.Row, columns []string) bool {
	if c.IsRowEmpty(row, columns) {
		return false
	}

	marker, ok := c.MarkerColumn(columns)
	if !ok {
		return false
	}
	if s, isString := row[marker].(string); !isString || s != c.params.MarkerValue {
		return false
	}

	window := columns
	if len(window) > c.params.DensityWindow {
		window = window[:c.params.DensityWindow]
	}
	populated := 0
	for _, col := range window {
		if !IsBlank(row[col]) {
			populated++
		}
	}
	return populated >= c.params.DensityMin
}

// MarkerColumn returns the first column whose name matches the marker column.
func (c *Classifier) MarkerColumn(columns []string) (string, bool) {
	for _, col := range columns {
		if columnKey(col) == c.markerKey {
			return col, true
		}
	}
	return "", false
}

// IsMarkerValue reports whether v is the literal marker text.
func (c *Classifier) IsMarkerValue(v interface{}) bool {
	s, ok := v.(string)
	return ok && s == c.params.MarkerValue
}

// columnKey normalises a column name for case-insensitive lookup. Sheets may
// store "é" composed or decomposed, so names are NFC-normalised too.
func columnKey(name string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
}

// DropEmptyRows returns the table with fully empty rows removed.
func DropEmptyRows(table *models.Table) *models.Table {
	if table == nil {
		return &models.Table{}
	}
	rows := make([]models.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if !IsRowEmpty(row, table.Columns) {
			rows = append(rows, row)
		}
	}
	return &models.Table{Columns: table.Columns, Rows: rows}
}
