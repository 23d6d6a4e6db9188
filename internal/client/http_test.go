package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/confighelper/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	body        string
	contentType string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.contentType = r.Header.Get("Content-Type")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL + "/")
}

func TestHTTPClient_ImplementsClient(t *testing.T) {
	var _ Client = (*HTTPClient)(nil)
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok","version":"v1.2.3","uptime":"3m2s"}`}
	c := newTestClient(t, h)

	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.method != http.MethodGet || h.path != "/api/health" {
		t.Fatalf("unexpected request %s %s", h.method, h.path)
	}
	if resp.Status != "ok" || resp.Version != "v1.2.3" || resp.Uptime != "3m2s" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHTTPClient_Init(t *testing.T) {
	h := &testHandler{responseBody: `{"version":"dev","commit":"abc123","date":"2026-01-15"}`}
	c := newTestClient(t, h)

	resp, err := c.Init(context.Background())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.path != "/api/init" {
		t.Fatalf("expected /api/init, got %s", h.path)
	}
	if resp.Commit != "abc123" || resp.Date != "2026-01-15" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHTTPClient_Import(t *testing.T) {
	h := &testHandler{responseBody: `{"success":true,"config":{"actions":[{"id":"a","title":"Ping","shell":"ping","icon":""}],"entities":[],"dashboards":[]}}`}
	c := newTestClient(t, h)

	cfg, err := c.Import(context.Background(), "actions:\n  - title: Ping\n")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/api/import" {
		t.Fatalf("unexpected request %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", h.contentType)
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(h.body), &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if sent["config"] != "actions:\n  - title: Ping\n" {
		t.Fatalf("unexpected config field %q", sent["config"])
	}
	if len(cfg.Actions) != 1 || cfg.Actions[0].Title != "Ping" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestHTTPClient_Export(t *testing.T) {
	h := &testHandler{responseBody: `{"success":true,"yaml":"actions: []\n"}`}
	c := newTestClient(t, h)

	out, err := c.Export(context.Background(), &model.Config{Actions: []model.Action{}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if h.path != "/api/export" {
		t.Fatalf("expected /api/export, got %s", h.path)
	}
	if !strings.Contains(h.body, `"config":{`) {
		t.Fatalf("expected config object in request, got %s", h.body)
	}
	if out != "actions: []\n" {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	for _, tc := range []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"JSONError", 400, `{"success":false,"error":"Config is required"}`, "Config is required"},
		{"NotFound", 404, `{"error":"not found"}`, "not found"},
		{"PlainText", 400, "Invalid request: unexpected EOF\n", "Invalid request: unexpected EOF"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, &testHandler{statusCode: tc.status, responseBody: tc.body})

			_, err := c.Export(context.Background(), nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tc.status || apiErr.Message != tc.wantMessage {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestHTTPClient_ReportedFailure(t *testing.T) {
	c := newTestClient(t, &testHandler{responseBody: `{"success":false}`})
	if _, err := c.Import(context.Background(), ""); err == nil {
		t.Fatal("expected error for success=false")
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPClient(url).Health(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}
