package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/keywheel/pkg/observability"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	c := New(io.Discard, LogInfo)
	runner := c.newRunner()
	t.Cleanup(func() { runner.Close() })
	return c.router(runner)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func TestServeKeys(t *testing.T) {
	rec := get(t, newTestServer(t), "/keys")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var keys []keyInfo
	decode(t, rec, &keys)
	if len(keys) != 24 {
		t.Errorf("got %d keys, want 24", len(keys))
	}
	if keys[0] != (keyInfo{Key: "C", Mode: "major"}) {
		t.Errorf("keys[0] = %+v, want C major", keys[0])
	}
}

func TestServeRelated(t *testing.T) {
	tests := []struct {
		path     string
		key      string
		related  []string
		numerals []string
	}{
		{"/keys/C/related", "C", []string{"Cm", "Dm", "Em", "F", "G", "Am"}, []string{"i", "ii", "iii", "IV", "V", "vi"}},
		{"/keys/F%23m/related", "F#m", nil, nil},
		{"/keys/am/related", "Am", nil, []string{"I", "III", "iv", "v", "VI", "VII"}},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			var resp relatedResponse
			decode(t, rec, &resp)
			if resp.Key != tt.key {
				t.Errorf("key = %q, want %q", resp.Key, tt.key)
			}
			for i, want := range tt.related {
				if resp.Related[i].Key != want {
					t.Errorf("related[%d] = %q, want %q", i, resp.Related[i].Key, want)
				}
			}
			for i, want := range tt.numerals {
				if resp.Related[i].Numeral != want {
					t.Errorf("numeral[%d] = %q, want %q", i, resp.Related[i].Numeral, want)
				}
			}
		})
	}
}

func TestServeLayout(t *testing.T) {
	rec := get(t, newTestServer(t), "/keys/C/layout?tick=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var frame struct {
		Root      string `json:"root"`
		Tick      uint   `json:"tick"`
		Saturated bool   `json:"saturated"`
		Nodes     []struct {
			Key    string  `json:"key"`
			Radius float64 `json:"radius"`
		} `json:"nodes"`
	}
	decode(t, rec, &frame)
	if frame.Root != "C" || frame.Tick != 5 || frame.Saturated {
		t.Errorf("frame = %s tick %d saturated %v, want C tick 5 growing", frame.Root, frame.Tick, frame.Saturated)
	}
	if len(frame.Nodes) < 25 {
		t.Errorf("got %d nodes, want at least 25", len(frame.Nodes))
	}
	if frame.Nodes[1].Radius != 60 {
		t.Errorf("ring 1 radius at tick 5 = %g, want 60", frame.Nodes[1].Radius)
	}
}

func TestServeFrame(t *testing.T) {
	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/keys/C/frame.svg", "image/svg+xml", "<svg"},
		{"/keys/C/frame.txt", "text/plain; charset=utf-8", "C\n  Cm\n"},
		{"/keys/C/frame.dot", "text/vnd.graphviz; charset=utf-8", "graph keys {"},
		{"/keys/C/frame.json?tick=0", "application/json", "{"},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body starts %q, want prefix %q", rec.Body.String()[:min(rec.Body.Len(), 40)], tt.prefix)
			}
		})
	}
}

func TestServeErrors(t *testing.T) {
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/keys/H/related", http.StatusBadRequest, "INVALID_KEY"},
		{"/keys/C/layout?tick=soon", http.StatusBadRequest, "INVALID_TICK"},
		{"/keys/C/layout?tick=-1", http.StatusBadRequest, "INVALID_TICK"},
		{"/keys/C/frame.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/keys/C/frame.svg?renderer=ascii", http.StatusBadRequest, "INVALID_INPUT"},
		{"/keys/Fb/layout", http.StatusUnprocessableEntity, "ACCIDENTAL_RANGE"},
		{"/nowhere", http.StatusNotFound, "NOT_FOUND"},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp errorResponse
			decode(t, rec, &resp)
			if string(resp.Error) != tt.code {
				t.Errorf("error = %q, want %q", resp.Error, tt.code)
			}
			if resp.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestServePreview(t *testing.T) {
	rec := get(t, newTestServer(t), "/preview?tick=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Tick   uint                         `json:"tick"`
		Frames map[string][]json.RawMessage `json:"frames"`
	}
	decode(t, rec, &resp)
	if len(resp.Frames) != 24 {
		t.Errorf("got %d frames, want 24", len(resp.Frames))
	}
	if len(resp.Frames["C"]) == 0 {
		t.Error("no frame for C")
	}
}

func TestServeVersion(t *testing.T) {
	rec := get(t, newTestServer(t), "/version")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"version"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestServeRequestID(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/keys")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("no request id assigned")
	}

	req := httptest.NewRequest(http.MethodGet, "/keys", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

type recordingServerHooks struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingServerHooks) OnRequest(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestServeHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t)
	get(t, h, "/keys/C/related")
	get(t, h, "/keys/H/related")

	want := []string{"/keys/{key}/related", "/keys/{key}/related"}
	if len(hooks.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", hooks.routes, want)
	}
	for i := range want {
		if hooks.routes[i] != want[i] {
			t.Errorf("routes[%d] = %q, want %q", i, hooks.routes[i], want[i])
		}
	}
	if hooks.status[0] != http.StatusOK || hooks.status[1] != http.StatusBadRequest {
		t.Errorf("status = %v, want [200 400]", hooks.status)
	}
}
