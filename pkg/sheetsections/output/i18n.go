package output

import (
	"golang.org/x/text/language"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// Catalog holds the user-facing strings of rendered output.
type Catalog struct {
	Lang         string
	AppTitle     string
	Overview     string
	NoData       string
	NoContent    string
	ErrorTitle   string
	ErrorDetails string
	RowsLabel    string
	SheetLabel   string
}

var supported = []language.Tag{language.English, language.Danish}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]Catalog{
	language.English: {
		Lang:         "en",
		AppTitle:     "Google Sheets Data Viewer",
		Overview:     models.OverviewTitle,
		NoData:       "No data available or no sections processed.",
		NoContent:    "No content items in this section.",
		ErrorTitle:   "Error Displaying Data",
		ErrorDetails: "Details",
		RowsLabel:    "rows",
		SheetLabel:   "Sheet",
	},
	language.Danish: {
		Lang:         "da",
		AppTitle:     "Google Sheets datavisning",
		Overview:     "Oversigt",
		NoData:       "Ingen data tilgængelige eller ingen sektioner behandlet.",
		NoContent:    "Ingen indholdselementer i denne sektion.",
		ErrorTitle:   "Fejl ved visning af data",
		ErrorDetails: "Detaljer",
		RowsLabel:    "rækker",
		SheetLabel:   "Ark",
	},
}

// Lookup returns the catalog best matching the given language preferences,
// such as a "lang" query value or an Accept-Language header. English is the
// fallback.
func Lookup(prefs ...string) Catalog {
	_, index := language.MatchStrings(matcher, prefs...)
	return catalogs[supported[index]]
}

// SectionTitle returns the display title of a synthetic header.
func (c Catalog) SectionTitle(h models.SyntheticHeader) string {
	if h.Title == models.OverviewTitle {
		return c.Overview
	}
	return h.Title
}
