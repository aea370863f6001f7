package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// RenderText writes the sections of a sheet as a plain text listing: a
// "## summary (N rows)" line per section followed by its content rows.
func RenderText(w io.Writer, sheet *models.SheetData, cat Catalog) error {
	if len(sheet.Sections) == 0 {
		_, err := fmt.Fprintln(w, cat.NoData)
		return err
	}

	columns := ContentColumns(sheet.Sections, sheet.Columns)
	for i, section := range sheet.Sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		summary := textSummary(section, sheet.Columns, cat)
		if _, err := fmt.Fprintf(w, "## %s (%d %s)\n", summary, len(section.ContentRows), cat.RowsLabel); err != nil {
			return err
		}
		if len(section.ContentRows) == 0 {
			if _, err := fmt.Fprintf(w, "   %s\n", cat.NoContent); err != nil {
				return err
			}
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "   %s\n", strings.Join(columns, "\t"))
		for _, row := range section.ContentRows {
			cells := make([]string, len(columns))
			for j, col := range columns {
				cells[j] = DisplayValue(row[col])
			}
			fmt.Fprintf(tw, "   %s\n", strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// RenderRows writes the rows of a table as an aligned flat table without any
// grouping.
func RenderRows(w io.Writer, columns []string, rows []models.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = parser.CellString(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func textSummary(section models.Section, columns []string, cat Catalog) string {
	if h, ok := section.Header.(models.SyntheticHeader); ok {
		return cat.SectionTitle(h)
	}
	fields := SummaryFields(section.Header, columns)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Column+": "+f.Value)
	}
	if len(parts) == 0 {
		return section.ID
	}
	return strings.Join(parts, " | ")
}
