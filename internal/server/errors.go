package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections"
)

// Error codes returned in APIError.ErrorCode.
const (
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeParseFailed       = "PARSE_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// ErrSheetNotFound is returned when a request names a tab that is not configured.
var ErrSheetNotFound = errors.New("sheet not found")

// APIError is the JSON body of every error response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	if e.RequestID == "" {
		e.RequestID = logging.RequestID(r.Context())
	}
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates an APIError.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: code, Message: message}
}

// errorFromLoad maps a loading failure to its APIError.
func errorFromLoad(err error) *APIError {
	var (
		apiErr *APIError
		srcErr *sheetsections.SourceError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrSheetNotFound), errors.Is(err, sheetsections.ErrSourceNotFound):
		return withDetails(NewAPIError(http.StatusNotFound, CodeNotFound, "Sheet not found"), err)
	case errors.Is(err, sheetsections.ErrInvalidFormat), errors.Is(err, sheetsections.ErrEmptyData):
		return withDetails(NewAPIError(http.StatusUnprocessableEntity, CodeParseFailed, "Sheet data could not be parsed"), err)
	case errors.Is(err, context.DeadlineExceeded):
		return withDetails(NewAPIError(http.StatusGatewayTimeout, CodeTimeout, "Fetching sheet data timed out"), err)
	case errors.As(err, &srcErr):
		return withDetails(NewAPIError(http.StatusBadGateway, CodeSourceUnavailable, "Sheet source is unavailable"), err)
	default:
		return NewAPIError(http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}

func withDetails(e *APIError, err error) *APIError {
	e.Details = err.Error()
	return e
}

// renderError writes err as an APIError.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := errorFromLoad(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			"status", apiErr.StatusCode,
			"error", err,
		)
	}
	_ = render.Render(w, r, apiErr)
}
