package models

import "time"

// WorkbookData represents a workbook-level container with per-sheet data.
type WorkbookData struct {
	// Title is the workbook title shown in rendered output.
	Title string `json:"title"`
	// FetchedAt is when the sheets were loaded.
	FetchedAt time.Time `json:"fetched_at"`
	// Sheets holds the sheets in the order they were requested.
	Sheets []SheetData `json:"sheets"`
}

// Sheet returns the sheet with the given GID or name.
func (w *WorkbookData) Sheet(key string) (*SheetData, bool) {
	if key == "" {
		return nil, false
	}
	for i := range w.Sheets {
		if w.Sheets[i].GID == key || w.Sheets[i].Name == key {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}
