package output

import (
	"strings"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// Placeholder is shown for blank cells.
const Placeholder = "-"

var (
	// summaryKeywords pick the columns shown in a section summary.
	summaryKeywords = []string{"dato", "kategori", "noter"}
	// contentKeywords pick the columns always shown for content rows.
	contentKeywords = []string{"figur", "kategori", "noter"}
)

const (
	summaryFallbackColumns = 5
	contentSampleRows      = 5
	contentFallbackColumns = 6
)

// SummaryField is one labelled value of a section summary.
// Column is empty for the title of a synthetic section.
type SummaryField struct {
	Column string
	Value  string
}

// DisplayValue formats a cell value for display.
func DisplayValue(v interface{}) string {
	if parser.IsBlank(v) {
		return Placeholder
	}
	return parser.CellString(v)
}

// SummaryFields selects the header values shown for a collapsed section.
//
// For a header row these are the first columns whose names contain "dato",
// "kategori" and "noter", where populated. Without any of them, the populated
// cells among the first five columns are used, skipping the marker text.
func SummaryFields(header models.Header, columns []string) []SummaryField {
	switch h := header.(type) {
	case models.SyntheticHeader:
		return []SummaryField{{Value: h.Title}}
	case models.ExplicitHeader:
		return explicitSummary(h.Row, columns)
	default:
		return nil
	}
}

func explicitSummary(row models.Row, columns []string) []SummaryField {
	var fields []SummaryField
	for _, keyword := range summaryKeywords {
		col, ok := findColumn(columns, keyword)
		if !ok || parser.IsBlank(row[col]) {
			continue
		}
		fields = append(fields, SummaryField{Column: col, Value: DisplayValue(row[col])})
	}
	if len(fields) > 0 {
		return fields
	}

	marker := parser.DefaultClassifierParams().MarkerValue
	for _, col := range firstN(columns, summaryFallbackColumns) {
		v := row[col]
		if parser.IsBlank(v) || strings.EqualFold(parser.CellString(v), marker) {
			continue
		}
		fields = append(fields, SummaryField{Column: col, Value: DisplayValue(v)})
	}
	return fields
}

// ContentColumns selects the columns shown for content rows.
//
// When the first section has content, columns whose names contain "figur",
// "kategori" or "noter" are kept, plus any column populated in the first five
// content rows of that section. If that leaves nothing, the first six columns
// are used. Otherwise all columns are shown.
func ContentColumns(sections []models.Section, columns []string) []string {
	if len(sections) == 0 || len(sections[0].ContentRows) == 0 {
		return columns
	}

	sample := sections[0].ContentRows
	if len(sample) > contentSampleRows {
		sample = sample[:contentSampleRows]
	}

	var selected []string
	for _, col := range columns {
		if containsAny(strings.ToLower(col), contentKeywords) || populated(sample, col) {
			selected = append(selected, col)
		}
	}
	if len(selected) == 0 {
		return firstN(columns, contentFallbackColumns)
	}
	return selected
}

func findColumn(columns []string, keyword string) (string, bool) {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(col), keyword) {
			return col, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func populated(rows []models.Row, col string) bool {
	for _, row := range rows {
		if !parser.IsBlank(row[col]) {
			return true
		}
	}
	return false
}

func firstN(columns []string, n int) []string {
	if len(columns) > n {
		return columns[:n]
	}
	return columns
}
