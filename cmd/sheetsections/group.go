package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/sheetsections-go/internal/cache"
	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/internal/sources"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/output"
)

type groupFlags struct {
	outputPath    string
	pretty        bool
	format        string
	sheetsDir     string
	keepEmptyRows bool
	gids          []string
	sheetID       string
	lang          string
}

func newGroupCmd(configPath *string) *cobra.Command {
	flags := &groupFlags{}
	cmd := &cobra.Command{
		Use:   "group [source.csv|source.xlsx]",
		Short: "Group a sheet into sections and print the result",
		Long: `group reads a local CSV or xlsx file, or the configured spreadsheet when no
file is given, and writes its sections in the selected format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, *configPath, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&flags.format, "format", "json", "Output format: json, html, text, table")
	cmd.Flags().StringVar(&flags.sheetsDir, "sheets-dir", "", "Directory for per-sheet JSON files")
	cmd.Flags().BoolVar(&flags.keepEmptyRows, "keep-empty-rows", false, "Keep fully empty rows as section gaps")
	cmd.Flags().StringSliceVar(&flags.gids, "gid", nil, "Sheet tab gid to fetch (repeatable)")
	cmd.Flags().StringVar(&flags.sheetID, "sheet-id", "", "Spreadsheet id (overrides configuration)")
	cmd.Flags().StringVar(&flags.lang, "lang", "", "Language of html and text labels (en, da)")
	return cmd
}

func runGroup(cmd *cobra.Command, configPath string, flags *groupFlags, args []string) error {
	switch flags.format {
	case "json", "html", "text", "table":
	default:
		return fmt.Errorf("invalid format: %s (must be json, html, text or table)", flags.format)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flags.sheetID != "" {
		cfg.Sheet.ID = flags.sheetID
	}
	if len(flags.gids) > 0 {
		cfg.Sheet.GIDs = flags.gids
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	var (
		srcs  []fetch.Source
		title = cfg.Sheet.Title
	)
	if len(args) == 1 {
		inputPath := args[0]
		if _, err := os.Stat(inputPath); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", inputPath)
		}
		if srcs, err = fetch.FileSources(inputPath); err != nil {
			return err
		}
		if title == "" {
			title = filepath.Base(inputPath)
		}
	} else {
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return err
		}
		if srcs, err = sources.FromConfig(ctx, cfg, c, logger); err != nil {
			return err
		}
	}

	includeRows := flags.format == "table"
	opts := loadOptions(cfg, logger)
	opts.KeepEmptyRows = opts.KeepEmptyRows || flags.keepEmptyRows
	opts.IncludeRows = &includeRows

	wb, err := sheetsections.LoadWorkbook(ctx, title, srcs, opts)
	if err != nil {
		return fmt.Errorf("grouping failed: %w", err)
	}

	data, err := render(wb, flags)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	if flags.outputPath != "" {
		if err := os.WriteFile(flags.outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if flags.sheetsDir == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if flags.sheetsDir != "" {
		if err := writeSheetFiles(wb, flags.sheetsDir, flags.pretty); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	return nil
}

func render(wb *models.WorkbookData, flags *groupFlags) ([]byte, error) {
	cat := output.Lookup(flags.lang, os.Getenv("LANG"))

	var buf bytes.Buffer
	switch flags.format {
	case "html":
		if wb.Title == "" {
			wb.Title = cat.AppTitle
		}
		if err := output.RenderHTML(&buf, output.NewPage(wb, cat)); err != nil {
			return nil, err
		}
	case "text":
		if err := eachSheet(&buf, wb, cat, func(w io.Writer, sheet *models.SheetData) error {
			return output.RenderText(w, sheet, cat)
		}); err != nil {
			return nil, err
		}
	case "table":
		if err := eachSheet(&buf, wb, cat, func(w io.Writer, sheet *models.SheetData) error {
			return output.RenderRows(w, sheet.Columns, sheet.Rows)
		}); err != nil {
			return nil, err
		}
	default:
		data, err := output.ToJSON(wb, flags.pretty)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// eachSheet renders every sheet, prefixed by its name when there are several.
func eachSheet(w io.Writer, wb *models.WorkbookData, cat output.Catalog, fn func(io.Writer, *models.SheetData) error) error {
	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		if len(wb.Sheets) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s: %s\n\n", cat.SheetLabel, sheet.Name)
		}
		if err := fn(w, sheet); err != nil {
			return err
		}
	}
	return nil
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&wb.Sheets[i], pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheetFileName(wb.Sheets[i])+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// sheetFileName returns a file name for sheet that is safe on common file
// systems.
func sheetFileName(sheet models.SheetData) string {
	name := sheet.Name
	if name == "" {
		name = "gid-" + sheet.GID
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
