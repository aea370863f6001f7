package sheetsections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/parser"
)

// Process filters and groups a parsed table.
func Process(table *models.Table, opts Options) models.SheetData {
	if table == nil {
		table = &models.Table{}
	}
	if !opts.KeepEmptyRows {
		table = parser.DropEmptyRows(table)
	}

	grouper := parser.NewGrouper(parser.NewClassifier(opts.Classifier))
	sheet := models.SheetData{
		Columns:  table.Columns,
		Sections: grouper.Group(table.Rows, table.Columns),
	}
	if sheet.Columns == nil {
		sheet.Columns = []string{}
	}
	if opts.ShouldIncludeRows() {
		sheet.Rows = table.Rows
	}
	return sheet
}

// Load fetches one sheet from source and groups it.
func Load(ctx context.Context, source fetch.Source, opts Options) (*models.SheetData, error) {
	logger := opts.logger().With(slog.String("sheet", source.Name()))

	start := time.Now()
	table, err := source.Fetch(ctx)
	if err != nil {
		return nil, classifyError(source.Name(), err)
	}
	if len(table.Columns) == 0 {
		return nil, NewSourceError(source.Name(), StageParse, ErrEmptyData)
	}

	sheet := Process(table, opts)
	sheet.Name = source.Name()
	if g, ok := source.(interface{ GID() string }); ok {
		sheet.GID = g.GID()
	}

	logger.Info("grouped sheet",
		slog.Int("rows", len(table.Rows)),
		slog.Int("sections", len(sheet.Sections)),
		slog.Duration("duration", time.Since(start)),
	)
	return &sheet, nil
}

// LoadWorkbook loads every source concurrently, keeping the order of sources.
// The first failure cancels the remaining loads.
func LoadWorkbook(ctx context.Context, title string, sources []fetch.Source, opts Options) (*models.WorkbookData, error) {
	sheets := make([]models.SheetData, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())
	for i, source := range sources {
		g.Go(func() error {
			sheet, err := Load(ctx, source, opts)
			if err != nil {
				return err
			}
			sheets[i] = *sheet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.WorkbookData{
		Title:     title,
		FetchedAt: time.Now().UTC(),
		Sheets:    sheets,
	}, nil
}

// classifyError wraps a source failure in a SourceError carrying the matching
// sentinel.
func classifyError(name string, err error) error {
	var parseErr *fetch.ParseError
	if errors.As(err, &parseErr) {
		return NewSourceError(name, StageParse, fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}

	var statusErr *fetch.StatusError
	notFound := errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, fetch.ErrNotShared) ||
		(errors.As(err, &statusErr) && statusErr.StatusCode == 404)
	if notFound {
		return NewSourceError(name, StageFetch, fmt.Errorf("%w: %w", ErrSourceNotFound, err))
	}
	return NewSourceError(name, StageFetch, err)
}
