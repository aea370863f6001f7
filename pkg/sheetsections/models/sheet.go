package models

// SheetData represents the sectioned data of a single sheet tab.
type SheetData struct {
	// Name is the display name of the sheet (source name, tab name or file name).
	Name string `json:"name"`
	// GID is the tab id within the spreadsheet, empty for local files.
	GID string `json:"gid,omitempty"`
	// Columns is the ordered column list of the sheet.
	Columns []string `json:"columns"`
	// Rows contains the rows that were grouped, after empty-row filtering.
	Rows []Row `json:"rows,omitempty"`
	// Sections contains the grouped sections in input order.
	Sections []Section `json:"sections"`
}
