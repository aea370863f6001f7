package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/internal/metrics"
	"github.com/ukaji3/sheetsections-go/internal/sources"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
)

const weekendCSV = "year,Weekend #,Dato,Figur Idé,Kategori,Noter\n" +
	",,,Velkommen,,\n" +
	"2025,1,3/1,Figur Idé,Kategori,Noter\n" +
	",,,Drage,Papir,\n" +
	",,,Fugl,Papir,god\n"

// newUpstream serves exports keyed by gid: 0 is a weekend sheet, 9 is empty,
// 42 is missing, 7 is a sign-in page and 500 fails.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("gid") {
		case "0":
			w.Header().Set("Content-Type", "text/csv")
			io.WriteString(w, weekendCSV)
		case "9":
			w.Header().Set("Content-Type", "text/csv")
		case "7":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, "<html>Sign in</html>")
		case "500":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(upstream string, gids ...string) *config.Config {
	cfg := config.Default()
	cfg.Sheet.ID = "sheet123"
	cfg.Sheet.GIDs = gids
	cfg.Sheet.Title = "Weekends"
	cfg.Fetch.BaseURL = upstream
	cfg.Fetch.MaxRetries = 0
	cfg.Cache.Backend = "none"
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *metrics.Metrics) {
	t.Helper()
	logger := logging.NewWithWriter(io.Discard, "text", "error")
	srcs, err := sources.FromConfig(context.Background(), cfg, nil, logger)
	require.NoError(t, err)

	opts := sheetsections.DefaultOptions()
	opts.Logger = logger
	m := metrics.New()
	return New(cfg, NewLoader(cfg.Sheet.Title, srcs, opts, m), m, logger), m
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr), rec.Body.String())
	return apiErr
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestWorkbookSections(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	rec := get(t, s.Handler(), "/api/v1/sections")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Title  string `json:"title"`
		Sheets []struct {
			GID      string `json:"gid"`
			Sections []struct {
				ID          string                   `json:"id"`
				HeaderData  map[string]interface{}   `json:"headerData"`
				ContentRows []map[string]interface{} `json:"contentRows"`
			} `json:"sections"`
		} `json:"sheets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Weekends", body.Title)
	require.Len(t, body.Sheets, 1)
	assert.Equal(t, "0", body.Sheets[0].GID)

	sections := body.Sheets[0].Sections
	require.Len(t, sections, 2)
	assert.Equal(t, "section-initial", sections[0].ID)
	assert.Equal(t, true, sections[0].HeaderData["syntheticHeader"])
	assert.Len(t, sections[0].ContentRows, 1)
	assert.Equal(t, "section-1", sections[1].ID)
	assert.Equal(t, "Figur Idé", sections[1].HeaderData["Figur Idé"])
	assert.Len(t, sections[1].ContentRows, 2)
}

func TestSheetSectionsAndRows(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	rec := get(t, s.Handler(), "/api/v1/sheets/0/sections")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"section-1"`)
	assert.NotContains(t, rec.Body.String(), `"rows"`)

	rec = get(t, s.Handler(), "/api/v1/sheets/0/rows")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows RowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Equal(t, "0", rows.GID)
	assert.Equal(t, []string{"year", "Weekend #", "Dato", "Figur Idé", "Kategori", "Noter"}, rows.Columns)
	assert.Len(t, rows.Rows, 4)
}

func TestSheetErrors(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0", "9", "42", "7", "500"))

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown tab", "/api/v1/sheets/nope/sections", http.StatusNotFound, CodeNotFound},
		{"missing upstream", "/api/v1/sheets/42/sections", http.StatusNotFound, CodeNotFound},
		{"not shared", "/api/v1/sheets/7/rows", http.StatusNotFound, CodeNotFound},
		{"empty export", "/api/v1/sheets/9/sections", http.StatusUnprocessableEntity, CodeParseFailed},
		{"upstream failure", "/api/v1/sheets/500/sections", http.StatusBadGateway, CodeSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s.Handler(), tt.path, RequestIDHeader, "req-1")
			assert.Equal(t, tt.status, rec.Code)
			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "req-1", apiErr.RequestID)
			assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestPage(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "Weekends")
	assert.Contains(t, body, "Overview")
	assert.Contains(t, body, `<details id="0-section-1" name="sheet-0">`)

	rec = get(t, s.Handler(), "/?lang=da")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="da">`)
	assert.Contains(t, rec.Body.String(), "Oversigt")

	rec = get(t, s.Handler(), "/", "Accept-Language", "da-DK,da;q=0.9")
	assert.Equal(t, "da", rec.Header().Get("Content-Language"))
}

func TestPageError(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "500"))

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error Displaying Data")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(newUpstream(t).URL, "0")
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	s, _ := newTestServer(t, cfg)

	first := get(t, s.Handler(), "/api/v1/sheets/0/sections")
	assert.Equal(t, http.StatusOK, first.Code)

	second := get(t, s.Handler(), "/api/v1/sheets/0/sections")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, CodeRateLimited, decodeAPIError(t, second).ErrorCode)

	// health checks bypass the limiter
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/healthz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	require.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/v1/sheets/0/sections").Code)

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `sheetsections_fetch_total{outcome="success",source="gid 0"} 1`)
	assert.Contains(t, body, `sheetsections_sections{sheet="gid 0"} 2`)
	assert.True(t, strings.Contains(body, `route="/api/v1/sheets/{gid}/sections"`), body)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, testConfig(newUpstream(t).URL, "0"))

	rec := get(t, s.Handler(), "/healthz", "Origin", "http://localhost:8080")
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, s.Handler(), "/healthz", "Origin", "http://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
