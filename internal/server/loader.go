package server

import (
	"context"
	"fmt"

	"github.com/ukaji3/sheetsections-go/internal/metrics"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

// Loader loads the configured sheets on demand.
type Loader struct {
	title   string
	sources []fetch.Source
	opts    sheetsections.Options
	metrics *metrics.Metrics
}

// NewLoader creates a Loader. With a non-nil m every source is instrumented
// and every loaded sheet is observed.
func NewLoader(title string, sources []fetch.Source, opts sheetsections.Options, m *metrics.Metrics) *Loader {
	if m != nil {
		wrapped := make([]fetch.Source, len(sources))
		for i, src := range sources {
			wrapped[i] = m.InstrumentSource(src)
		}
		sources = wrapped
	}
	return &Loader{title: title, sources: sources, opts: opts, metrics: m}
}

// Workbook loads every configured sheet.
func (l *Loader) Workbook(ctx context.Context) (*models.WorkbookData, error) {
	wb, err := sheetsections.LoadWorkbook(ctx, l.title, l.sources, l.opts)
	if err != nil {
		return nil, err
	}
	for i := range wb.Sheets {
		l.observe(&wb.Sheets[i])
	}
	return wb, nil
}

// Sheet loads the sheet whose tab id or name is key.
func (l *Loader) Sheet(ctx context.Context, key string, includeRows bool) (*models.SheetData, error) {
	src, ok := l.find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, key)
	}

	opts := l.opts
	opts.IncludeRows = &includeRows
	sheet, err := sheetsections.Load(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	l.observe(sheet)
	return sheet, nil
}

func (l *Loader) find(key string) (fetch.Source, bool) {
	for _, src := range l.sources {
		if g, ok := src.(interface{ GID() string }); ok && g.GID() != "" && g.GID() == key {
			return src, true
		}
	}
	for _, src := range l.sources {
		if src.Name() == key {
			return src, true
		}
	}
	return nil, false
}

func (l *Loader) observe(sheet *models.SheetData) {
	if l.metrics != nil {
		l.metrics.ObserveSheet(sheet)
	}
}
