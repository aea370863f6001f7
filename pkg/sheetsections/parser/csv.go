package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseCSV reads a CSV export. The first record is the header line.
// An input without any record yields an empty Table.
func ParseCSV(r io.Reader, opts ParseOptions) (*models.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &models.Table{Columns: []string{}, Rows: []models.Row{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, record)
	}

	return BuildTable(header, records, opts), nil
}
