package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/statebridge/statebridge/pkg/adapters/state/memory"
	"github.com/statebridge/statebridge/pkg/ports"
)

func newTestServer(state ports.StateClient) *Server {
	return NewServer(&Config{
		Port:      0,
		StoreName: "statestore",
		State:     state,
		Logger:    zap.NewNop(),
	})
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// failingState fails every operation, standing in for an unreachable
// remote backend.
type failingState struct{}

func (failingState) GetState(ctx context.Context, store, key string) ([]byte, bool, error) {
	return nil, false, &ports.BackendError{Op: "get state", Err: errors.New("connection refused")}
}

func (failingState) SaveState(ctx context.Context, store, key string, value []byte) error {
	return &ports.BackendError{Op: "save state", Err: errors.New("connection refused")}
}

func (failingState) DeleteState(ctx context.Context, store, key string) error {
	return &ports.BackendError{Op: "delete state", Err: errors.New("connection refused")}
}

// countingState records whether the backend was touched at all.
type countingState struct {
	*memory.Store
	calls int
}

func (c *countingState) GetState(ctx context.Context, store, key string) ([]byte, bool, error) {
	c.calls++
	return c.Store.GetState(ctx, store, key)
}

func (c *countingState) SaveState(ctx context.Context, store, key string, value []byte) error {
	c.calls++
	return c.Store.SaveState(ctx, store, key, value)
}

func (c *countingState) DeleteState(ctx context.Context, store, key string) error {
	c.calls++
	return c.Store.DeleteState(ctx, store, key)
}

func TestStateLifecycle(t *testing.T) {
	s := newTestServer(memory.NewStore())

	w := doRequest(s, http.MethodPost, "/api/v1/state/foo", "bar")
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d, want 204", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/api/v1/state/foo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "bar" {
		t.Errorf("GET body = %q, want %q", got, "bar")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q, want application/octet-stream", ct)
	}

	w = doRequest(s, http.MethodDelete, "/api/v1/state/foo", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/api/v1/state/foo", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET after DELETE status = %d, want 404", w.Code)
	}
	if got := w.Body.String(); got != "not found" {
		t.Errorf("GET after DELETE body = %q, want %q", got, "not found")
	}
}

func TestSaveEmptyBody(t *testing.T) {
	s := newTestServer(memory.NewStore())

	w := doRequest(s, http.MethodPost, "/api/v1/state/empty", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d, want 204", w.Code)
	}

	// An empty value is stored, not absent.
	w = doRequest(s, http.MethodGet, "/api/v1/state/empty", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("GET body = %q, want empty", w.Body.String())
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	state := &countingState{Store: memory.NewStore()}
	s := newTestServer(state)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		w := doRequest(s, method, "/api/v1/state/", "v")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s empty key status = %d, want 400", method, w.Code)
		}
		if got := w.Body.String(); got != "missing key" {
			t.Errorf("%s empty key body = %q, want %q", method, got, "missing key")
		}
	}

	if state.calls != 0 {
		t.Errorf("backend invoked %d times for empty keys, want 0", state.calls)
	}
}

func TestBackendFailureMapsTo500(t *testing.T) {
	s := newTestServer(failingState{})

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPost, "v"},
		{http.MethodDelete, ""},
	}

	for _, tt := range tests {
		w := doRequest(s, tt.method, "/api/v1/state/foo", tt.body)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", tt.method, w.Code)
		}
		// The cause never leaks to the client.
		if got := w.Body.String(); got != "internal error" {
			t.Errorf("%s body = %q, want %q", tt.method, got, "internal error")
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(memory.NewStore())

	for _, path := range []string{"/livez", "/readyz", "/health"} {
		w := doRequest(s, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
		if got := w.Body.String(); got != "ok" {
			t.Errorf("GET %s body = %q, want %q", path, got, "ok")
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(memory.NewStore())

	w := doRequest(s, http.MethodGet, "/health", "")
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("response missing generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "caller-id" {
		t.Errorf("request ID = %q, want caller's %q", got, "caller-id")
	}
}

func TestKeysWithSlashes(t *testing.T) {
	s := newTestServer(memory.NewStore())

	w := doRequest(s, http.MethodPost, "/api/v1/state/orders/42", "data")
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d, want 204", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/api/v1/state/orders/42", "")
	if w.Code != http.StatusOK || w.Body.String() != "data" {
		t.Errorf("GET = %d %q, want 200 %q", w.Code, w.Body.String(), "data")
	}
}
