package sheetsections

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound indicates the sheet, tab or file does not exist.
var ErrSourceNotFound = errors.New("source not found")

// ErrEmptyData indicates the source yielded no header line.
var ErrEmptyData = errors.New("error parsing CSV data or data is empty")

// ErrInvalidFormat indicates the source data could not be parsed.
var ErrInvalidFormat = errors.New("invalid sheet data format")

// Stages reported by SourceError.
const (
	StageFetch = "fetch"
	StageParse = "parse"
)

// SourceError represents an error while loading a sheet.
type SourceError struct {
	Source string
	Stage  string // "fetch" or "parse"
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("error fetching or parsing sheet data from %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, stage string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
