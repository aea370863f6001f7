package output

import (
	"reflect"
	"testing"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

var columns = []string{"year", "Weekend #", "Dato", "Figur Idé", "Kategori", "Noter"}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{nil, "-"},
		{"", "-"},
		{"  ", "-"},
		{"Idea", "Idea"},
		{int64(2025), "2025"},
		{2.5, "2.5"},
		{false, "false"},
	}

	for _, tt := range tests {
		if result := DisplayValue(tt.input); result != tt.expected {
			t.Errorf("DisplayValue(%#v) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestSummaryFields(t *testing.T) {
	tests := []struct {
		name     string
		header   models.Header
		columns  []string
		expected []SummaryField
	}{
		{
			name:     "synthetic",
			header:   models.SyntheticHeader{Title: "Overview"},
			columns:  columns,
			expected: []SummaryField{{Value: "Overview"}},
		},
		{
			name: "keyword columns",
			header: models.ExplicitHeader{Row: models.Row{
				"year": int64(2025), "Dato": "12/4", "Figur Idé": "Figur Idé", "Kategori": "A", "Noter": "",
			}},
			columns:  columns,
			expected: []SummaryField{{"Dato", "12/4"}, {"Kategori", "A"}},
		},
		{
			name: "fallback skips marker text",
			header: models.ExplicitHeader{Row: models.Row{
				"a": "One", "b": "figur idé", "c": nil, "d": int64(4), "e": "Five", "f": "Six",
			}},
			columns:  []string{"a", "b", "c", "d", "e", "f"},
			expected: []SummaryField{{"a", "One"}, {"d", "4"}, {"e", "Five"}},
		},
		{
			name:     "nothing populated",
			header:   models.ExplicitHeader{Row: models.Row{}},
			columns:  columns,
			expected: nil,
		},
	}

	for _, tt := range tests {
		result := SummaryFields(tt.header, tt.columns)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("SummaryFields(%s) = %v, expected %v", tt.name, result, tt.expected)
		}
	}
}

func TestContentColumns(t *testing.T) {
	section := func(rows ...models.Row) models.Section {
		return models.Section{ID: "section-0", Header: models.ExplicitHeader{}, ContentRows: rows}
	}

	tests := []struct {
		name     string
		sections []models.Section
		columns  []string
		expected []string
	}{
		{
			name:     "no sections",
			sections: nil,
			columns:  columns,
			expected: columns,
		},
		{
			name:     "first section without content",
			sections: []models.Section{section()},
			columns:  columns,
			expected: columns,
		},
		{
			name:     "keyword and populated columns",
			sections: []models.Section{section(models.Row{"Figur Idé": "Idea", "Dato": "1/1"})},
			columns:  columns,
			expected: []string{"Dato", "Figur Idé", "Kategori", "Noter"},
		},
		{
			name: "only the first five rows are sampled",
			sections: []models.Section{section(
				models.Row{"a": "1"}, models.Row{"a": "2"}, models.Row{"a": "3"},
				models.Row{"a": "4"}, models.Row{"a": "5"}, models.Row{"b": "6"},
			)},
			columns:  []string{"a", "b"},
			expected: []string{"a"},
		},
		{
			name:     "fallback to first six columns",
			sections: []models.Section{section(models.Row{"z": "x"})},
			columns:  []string{"a", "b", "c", "d", "e", "f", "g"},
			expected: []string{"a", "b", "c", "d", "e", "f"},
		},
	}

	for _, tt := range tests {
		result := ContentColumns(tt.sections, tt.columns)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("ContentColumns(%s) = %q, expected %q", tt.name, result, tt.expected)
		}
	}
}
