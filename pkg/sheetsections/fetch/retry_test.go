package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestRetryClient(maxRetries int) *RetryClient {
	rc := NewRetryClient(nil, maxRetries, nil)
	rc.baseDelay = time.Millisecond
	rc.maxDelay = time.Millisecond
	return rc
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{429, true},
		{500, true},
		{501, false},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		if result := isRetryableStatus(tt.status); result != tt.expected {
			t.Errorf("isRetryableStatus(%d) = %v, expected %v", tt.status, result, tt.expected)
		}
	}
}

func TestCalculateDelay(t *testing.T) {
	rc := NewRetryClient(nil, 3, nil)
	for attempt := 1; attempt <= 10; attempt++ {
		delay := rc.calculateDelay(attempt)
		if delay < 100*time.Millisecond || delay > rc.maxDelay {
			t.Errorf("calculateDelay(%d) = %s, expected between 100ms and %s", attempt, delay, rc.maxDelay)
		}
	}
}

func TestRetryClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := newTestRetryClient(3).Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestRetryClientReturnsLastResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := newTestRetryClient(2).Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.StatusCode)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestRetryClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := newTestRetryClient(3).Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", calls.Load())
	}
}

type failingDoer struct {
	calls int
}

func (d *failingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("connection refused")
}

func TestRetryClientTransportErrors(t *testing.T) {
	doer := &failingDoer{}
	rc := NewRetryClient(doer, 2, nil)
	rc.baseDelay = time.Millisecond

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	_, err := rc.Do(req)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected transport error, got %v", err)
	}
	if doer.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", doer.calls)
	}
}

func TestRetryClientCanceledContext(t *testing.T) {
	doer := &failingDoer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	_, err := NewRetryClient(doer, 3, nil).Do(req)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if doer.calls != 0 {
		t.Errorf("Expected no calls, got %d", doer.calls)
	}
}
