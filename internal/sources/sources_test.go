package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
)

func TestFromConfigCSV(t *testing.T) {
	cfg := config.Default()
	cfg.Sheet.ID = "abc"
	cfg.Sheet.GIDs = []string{"0", "77"}
	cfg.Sheet.Tabs = []string{"Weekend"}

	srcs, err := FromConfig(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 2)

	first := srcs[0].(*fetch.ExportSource)
	assert.Equal(t, "Weekend", first.Name())
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=0", first.URL())

	second := srcs[1].(*fetch.ExportSource)
	assert.Equal(t, "gid 77", second.Name())
	assert.Equal(t, "77", second.GID())
}

func TestFromConfigXLSX(t *testing.T) {
	cfg := config.Default()
	cfg.Sheet.ID = "abc"
	cfg.Sheet.Format = "xlsx"
	cfg.Sheet.Tabs = []string{"Weekend", "Noter"}

	srcs, err := FromConfig(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 2)
	assert.Equal(t, "Noter", srcs[1].Name())
	assert.Equal(t, srcs[0].(*fetch.ExportSource).URL(), srcs[1].(*fetch.ExportSource).URL(),
		"every tab reads the same workbook export")
}

func TestFromConfigAPI(t *testing.T) {
	cfg := config.Default()
	cfg.Sheet.ID = "abc"
	cfg.Sheet.Format = "api"
	cfg.Sheet.APIKey = "key"
	cfg.Sheet.Tabs = []string{"Weekend"}

	srcs, err := FromConfig(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	assert.IsType(t, &fetch.SheetsAPISource{}, srcs[0])
	assert.Equal(t, "Weekend", srcs[0].Name())
}

func TestFromConfigErrors(t *testing.T) {
	_, err := FromConfig(context.Background(), config.Default(), nil, nil)
	assert.ErrorIs(t, err, ErrNoSheet)

	cfg := config.Default()
	cfg.Sheet.ID = "abc"
	cfg.Sheet.Format = "api"
	_, err = FromConfig(context.Background(), cfg, nil, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Sheet.ID = "abc"
	cfg.Sheet.GIDs = nil
	_, err = FromConfig(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}
