package models

import "encoding/json"

// InitialSectionID is the id of the synthetic leading section.
const InitialSectionID = "section-initial"

// OverviewTitle is the title of the synthetic leading section.
const OverviewTitle = "Overview"

// Header is the heading of a Section. It is either a SyntheticHeader or an
// ExplicitHeader; use a type switch to tell them apart.
type Header interface {
	isHeader()
}

// SyntheticHeader heads the leading section that holds rows found before any
// header row.
type SyntheticHeader struct {
	// Title is the display title of the section.
	Title string
}

func (SyntheticHeader) isHeader() {}

// MarshalJSON encodes the header as {"syntheticHeader":true,"title":...}.
func (h SyntheticHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SyntheticHeader bool   `json:"syntheticHeader"`
		Title           string `json:"title"`
	}{true, h.Title})
}

// ExplicitHeader heads a section that starts at a header row of the sheet.
type ExplicitHeader struct {
	// Row is the header row itself.
	Row Row
}

func (ExplicitHeader) isHeader() {}

// MarshalJSON encodes the header as the header row object.
func (h ExplicitHeader) MarshalJSON() ([]byte, error) {
	if h.Row == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h.Row)
}

// Section is a header plus the content rows that follow it.
type Section struct {
	// ID is "section-initial" or "section-<index>" where index is the position of
	// the header row in the grouped row sequence.
	ID string `json:"id"`
	// Header is the synthetic or explicit heading of the section.
	Header Header `json:"headerData"`
	// ContentRows are the non-empty rows of the section, in input order.
	ContentRows []Row `json:"contentRows"`
}

// IsSynthetic reports whether the section is headed by a SyntheticHeader.
func (s Section) IsSynthetic() bool {
	_, ok := s.Header.(SyntheticHeader)
	return ok
}
