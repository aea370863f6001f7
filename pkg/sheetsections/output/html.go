package output

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.New("").ParseFS(templateFiles, "templates/*.html"))

// Page is the view model of the HTML accordion page.
type Page struct {
	Catalog Catalog
	Title   string
	Sheets  []SheetView
	// Err replaces the sheets with an error notice when set.
	Err string
}

// SheetView is one rendered sheet.
type SheetView struct {
	// Key is the tab id, or the sheet name when there is none, usable as an
	// element id.
	Key      string
	Name     string
	ShowName bool
	NoData   string
	Sections []SectionView
}

// SectionView is one collapsible section.
type SectionView struct {
	// ID is the section id prefixed with the sheet key, unique within a page.
	ID        string
	Number    int
	Summary   []SummaryField
	Columns   []string
	Rows      [][]string
	NoContent string
}

// NewPage builds the page for a workbook.
func NewPage(wb *models.WorkbookData, cat Catalog) Page {
	page := Page{Catalog: cat, Title: wb.Title}
	for _, sheet := range wb.Sheets {
		page.Sheets = append(page.Sheets, newSheetView(sheet, cat, len(wb.Sheets) > 1))
	}
	return page
}

// ErrorPage builds a page that shows err instead of data.
func ErrorPage(title string, err error, cat Catalog) Page {
	return Page{Catalog: cat, Title: title, Err: err.Error()}
}

func newSheetView(sheet models.SheetData, cat Catalog, showName bool) SheetView {
	key := sheet.GID
	if key == "" {
		key = sheet.Name
	}
	key = elementID(key)
	view := SheetView{
		Key:      key,
		Name:     sheet.Name,
		ShowName: showName,
		NoData:   cat.NoData,
	}

	columns := ContentColumns(sheet.Sections, sheet.Columns)
	for i, section := range sheet.Sections {
		sv := SectionView{
			ID:        key + "-" + section.ID,
			Number:    i + 1,
			Columns:   columns,
			NoContent: cat.NoContent,
		}
		if h, ok := section.Header.(models.SyntheticHeader); ok {
			sv.Summary = []SummaryField{{Value: cat.SectionTitle(h)}}
		} else {
			sv.Summary = SummaryFields(section.Header, sheet.Columns)
		}
		for _, row := range section.ContentRows {
			cells := make([]string, len(columns))
			for j, col := range columns {
				cells[j] = DisplayValue(row[col])
			}
			sv.Rows = append(sv.Rows, cells)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

// RenderHTML writes page as a standalone HTML document.
func RenderHTML(w io.Writer, page Page) error {
	return templates.ExecuteTemplate(w, "page", page)
}

// elementID replaces characters that are awkward in element ids and CSS
// selectors with "-".
func elementID(key string) string {
	if key == "" {
		return "sheet"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, key)
}
