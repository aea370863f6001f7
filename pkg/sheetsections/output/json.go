// Package output renders sectioned sheet data as JSON, HTML and text.
package output

import (
	"encoding/json"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// ToJSON serializes WorkbookData to JSON.
func ToJSON(data *models.WorkbookData, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// SheetToJSON serializes a single SheetData to JSON.
func SheetToJSON(data *models.SheetData, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
