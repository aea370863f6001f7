package parser

import (
	"fmt"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// gapLimit is the number of consecutive empty rows that closes a section.
const gapLimit = 2

// Grouper partitions a row sequence into sections.
// It holds no mutable state and is safe for concurrent use.
type Grouper struct {
	classifier *Classifier
}

// NewGrouper creates a Grouper using the given classifier.
// A nil classifier uses the default parameters.
func NewGrouper(c *Classifier) *Grouper {
	if c == nil {
		c = defaultClassifier
	}
	return &Grouper{classifier: c}
}

var defaultGrouper = NewGrouper(nil)

// GroupIntoSections groups rows into sections under the default parameters.
func GroupIntoSections(rows []models.Row, columns []string) []models.Section {
	return defaultGrouper.Group(rows, columns)
}

// Group partitions rows into sections.
//
// Rows before the first header row form a synthetic "Overview" section, unless
// two consecutive empty rows end that run first. Every header row then opens a
// section that collects the non-empty rows after it until the next header row
// or two consecutive empty rows. Rows after such a gap are dropped until the
// next header row.
func (g *Grouper) Group(rows []models.Row, columns []string) []models.Section {
	sections := []models.Section{}
	if len(rows) == 0 || len(columns) == 0 {
		return sections
	}

	initial, next := g.leadingSection(rows, columns)
	if initial != nil {
		sections = append(sections, *initial)
	}

	trim := func(content []models.Row) []models.Row {
		return trimTrailingEmpty(g.classifier, content, columns)
	}
	var state groupState = noOpenSection{trim: trim}
	for i := next; i < len(rows); i++ {
		var closed *models.Section
		state, closed = state.step(g.classify(i, rows[i], columns))
		if closed != nil {
			sections = append(sections, *closed)
		}
	}
	if open, ok := state.(*openSection); ok {
		sections = append(sections, open.close())
	}

	return sections
}

// leadingSection scans rows up to the first header row, or up to and including
// the second of two consecutive empty rows. It returns the synthetic section
// (nil when no content was found) and the index to continue from.
func (g *Grouper) leadingSection(rows []models.Row, columns []string) (*models.Section, int) {
	var content []models.Row
	gap := 0
	i := 0
	for ; i < len(rows); i++ {
		row := rows[i]
		if g.classifier.IsHeaderRow(row, columns) {
			break
		}
		if g.classifier.IsRowEmpty(row, columns) {
			gap++
			if gap >= gapLimit {
				i++
				break
			}
			continue
		}
		gap = 0
		content = append(content, row)
	}

	content = trimTrailingEmpty(g.classifier, content, columns)
	if len(content) == 0 {
		return nil, i
	}
	return &models.Section{
		ID:          models.InitialSectionID,
		Header:      models.SyntheticHeader{Title: models.OverviewTitle},
		ContentRows: content,
	}, i
}

type rowKind int

const (
	contentRow rowKind = iota
	emptyRow
	headerRow
)

// classifiedRow is one input row tagged with its kind and input position.
type classifiedRow struct {
	index int
	kind  rowKind
	row   models.Row
}

func (g *Grouper) classify(index int, row models.Row, columns []string) classifiedRow {
	kind := contentRow
	switch {
	case g.classifier.IsHeaderRow(row, columns):
		kind = headerRow
	case g.classifier.IsRowEmpty(row, columns):
		kind = emptyRow
	}
	return classifiedRow{index: index, kind: kind, row: row}
}

// groupState is noOpenSection or *openSection.
type groupState interface {
	// step consumes one row and returns the next state and the section the row
	// closed, if any.
	step(r classifiedRow) (groupState, *models.Section)
}

// trimFunc drops trailing empty rows from a section's content.
type trimFunc func([]models.Row) []models.Row

// noOpenSection waits for a header row; everything else is dropped.
type noOpenSection struct {
	trim trimFunc
}

func (s noOpenSection) step(r classifiedRow) (groupState, *models.Section) {
	if r.kind == headerRow {
		return openAt(r, s.trim), nil
	}
	return s, nil
}

// openSection collects content rows below a header row.
type openSection struct {
	section models.Section
	gap     int
	trim    trimFunc
}

func openAt(r classifiedRow, trim trimFunc) *openSection {
	return &openSection{
		section: models.Section{
			ID:          fmt.Sprintf("section-%d", r.index),
			Header:      models.ExplicitHeader{Row: r.row},
			ContentRows: []models.Row{},
		},
		trim: trim,
	}
}

func (s *openSection) step(r classifiedRow) (groupState, *models.Section) {
	switch r.kind {
	case headerRow:
		done := s.close()
		return openAt(r, s.trim), &done
	case emptyRow:
		s.gap++
		if s.gap >= gapLimit {
			done := s.close()
			return noOpenSection{trim: s.trim}, &done
		}
		return s, nil
	default:
		s.gap = 0
		s.section.ContentRows = append(s.section.ContentRows, r.row)
		return s, nil
	}
}

func (s *openSection) close() models.Section {
	done := s.section
	done.ContentRows = s.trim(done.ContentRows)
	return done
}

// trimTrailingEmpty drops empty rows from the end of rows.
func trimTrailingEmpty(c *Classifier, rows []models.Row, columns []string) []models.Row {
	end := len(rows)
	for end > 0 && c.IsRowEmpty(rows[end-1], columns) {
		end--
	}
	return rows[:end]
}
