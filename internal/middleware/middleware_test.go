package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
		wantBody   string
	}{
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, wantOrigin: "*", wantStatus: http.StatusOK},
		{name: "wildcard post", allowed: []string{"*"}, method: http.MethodPost, origin: "https://a.example", wantOrigin: "*", wantStatus: http.StatusTeapot, wantBody: "body"},
		{name: "listed origin", allowed: []string{"https://a.example"}, method: http.MethodPost, origin: "https://a.example", wantOrigin: "https://a.example", wantStatus: http.StatusTeapot, wantBody: "body"},
		{name: "unlisted origin", allowed: []string{"https://a.example"}, method: http.MethodPost, origin: "https://b.example", wantStatus: http.StatusTeapot, wantBody: "body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/generate-image", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status mismatch: got %d want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow-origin mismatch: got %q want %q", got, tc.wantOrigin)
			}
			if tc.wantOrigin != "" && rec.Header().Get("Access-Control-Allow-Methods") != "POST, OPTIONS" {
				t.Fatalf("allow-methods missing: %v", rec.Header())
			}
			if rec.Body.String() != tc.wantBody {
				t.Fatalf("body mismatch: got %q want %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc-123" {
		t.Fatalf("expected generated request id, got %q", seen)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := RequestID(Logger(l)(okHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-child", nil))

	out := buf.String()
	for _, want := range []string{`"status":418`, `"path":"/api/generate-child"`, `"bytes":4`, `"request_id":"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %s: %s", want, out)
		}
	}
}
