// Package models defines data structures for sectioned spreadsheet data.
package models

// Row maps a column name to a cell value.
//
// Cell values are string, int64, float64, bool or nil. A column missing from the
// map is absent; both absent and nil cells count as empty.
type Row map[string]interface{}

// Table is a parsed sheet: the ordered column list plus its rows.
type Table struct {
	// Columns is the header line of the sheet, in source order.
	Columns []string `json:"columns"`
	// Rows holds the data rows below the header line.
	Rows []Row `json:"rows"`
}
