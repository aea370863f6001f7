package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
)

func TestRecoverer(t *testing.T) {
	logger := logging.NewWithWriter(io.Discard, "text", "error")
	h := RequestID(Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, CodeInternal, apiErr.ErrorCode)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestRequestIDContext(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 1, retryAfter(10))
	assert.Equal(t, 1, retryAfter(1))
	assert.Equal(t, 4, retryAfter(0.25))
}

func TestErrorFromLoad(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown sheet", fmt.Errorf("%w: %q", ErrSheetNotFound, "x"), http.StatusNotFound, CodeNotFound},
		{"source not found",
			sheetsections.NewSourceError("s", sheetsections.StageFetch, fmt.Errorf("%w: %w", sheetsections.ErrSourceNotFound, fetch.ErrNotShared)),
			http.StatusNotFound, CodeNotFound},
		{"invalid format",
			sheetsections.NewSourceError("s", sheetsections.StageParse, fmt.Errorf("%w: bad", sheetsections.ErrInvalidFormat)),
			http.StatusUnprocessableEntity, CodeParseFailed},
		{"empty", sheetsections.NewSourceError("s", sheetsections.StageParse, sheetsections.ErrEmptyData),
			http.StatusUnprocessableEntity, CodeParseFailed},
		{"upstream status",
			sheetsections.NewSourceError("s", sheetsections.StageFetch, &fetch.StatusError{URL: "u", StatusCode: 503}),
			http.StatusBadGateway, CodeSourceUnavailable},
		{"deadline", sheetsections.NewSourceError("s", sheetsections.StageFetch, context.DeadlineExceeded),
			http.StatusGatewayTimeout, CodeTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := errorFromLoad(tt.err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
		})
	}
}
