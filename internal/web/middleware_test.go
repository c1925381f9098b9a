package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/hpungsan/twine/internal/config"
)

func TestRequestID_Generated(t *testing.T) {
	ts := setupTest(t, nil)

	rec := ts.do(t, "GET", "/strings", "")
	id := rec.Header().Get(RequestIDHeader)
	if len(id) != 26 {
		t.Errorf("X-Request-ID = %q, want a 26-char ULID", id)
	}

	other := ts.do(t, "GET", "/strings", "").Header().Get(RequestIDHeader)
	if other == id {
		t.Error("request ids should differ between requests")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	ts := setupTest(t, nil)

	req := httptest.NewRequest("GET", "/strings", nil)
	req.Header.Set(RequestIDHeader, "caller-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "caller-123" {
		t.Errorf("X-Request-ID = %q, want caller-123", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts := setupTest(t, nil)

	rec := ts.do(t, "GET", "/", "")
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy should be set")
	}
}

func TestCORS_AllowOriginOnEveryResponse(t *testing.T) {
	ts := setupTest(t, nil)

	for _, tc := range []struct {
		method, target string
		status         int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/strings", http.StatusOK},
		{"GET", "/strings/missing", http.StatusNotFound},
		{"POST", "/strings", http.StatusBadRequest},
	} {
		rec := ts.do(t, tc.method, tc.target, "")
		if rec.Code != tc.status {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.target, rec.Code, tc.status)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s %s: Access-Control-Allow-Origin = %q, want *", tc.method, tc.target, got)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	ts := setupTest(t, nil)

	for _, target := range []string{"/strings", "/strings/hello", "/strings/filter-by-natural-language"} {
		rec := ts.do(t, http.MethodOptions, target, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("OPTIONS %s: status = %d, want 204", target, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("OPTIONS %s: Access-Control-Allow-Origin = %q, want *", target, got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, DELETE" {
			t.Errorf("OPTIONS %s: Access-Control-Allow-Methods = %q", target, got)
		}
		if rec.Header().Get("Access-Control-Allow-Headers") == "" {
			t.Errorf("OPTIONS %s: Access-Control-Allow-Headers should be set", target)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("OPTIONS %s: body = %q, want empty", target, rec.Body.String())
		}
	}
}

func TestCORS_PreflightEchoesRequestedHeaders(t *testing.T) {
	ts := setupTest(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/strings", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-custom")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "content-type, x-custom" {
		t.Errorf("Access-Control-Allow-Headers = %q, want requested headers", got)
	}
}

func TestCORS_PreflightBypassesRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	ts := setupTest(t, cfg)

	if rec := ts.do(t, "GET", "/strings", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}
	rec := ts.do(t, "GET", "/strings", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("429 response: Access-Control-Allow-Origin = %q, want *", got)
	}

	if rec := ts.do(t, http.MethodOptions, "/strings", ""); rec.Code != http.StatusNoContent {
		t.Errorf("preflight: status = %d, want 204", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	ts := setupTest(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := ts.do(t, "GET", "/strings", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := ts.do(t, "GET", "/strings", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After should be set")
	}
	if resp := decodeError(t, rec); resp.Error.Code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", resp.Error.Code)
	}
}

func TestNewLimiter_Disabled(t *testing.T) {
	if l := newLimiter(config.DefaultConfig()); l != nil {
		t.Errorf("default config should disable rate limiting, got %v", l.Limit())
	}

	cfg := config.DefaultConfig()
	cfg.RateLimitRPS = 5
	cfg.RateLimitBurst = 0
	l := newLimiter(cfg)
	if l == nil || l.Limit() != rate.Limit(5) || l.Burst() != 1 {
		t.Errorf("limiter = %v, want 5 rps burst 1", l)
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core).Sugar()

	handler := requestID(accessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest("GET", "/strings?x=1", nil)
	req.Header.Set(RequestIDHeader, "abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d access log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" || fields["path"] != "/strings" {
		t.Errorf("fields = %v", fields)
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v (%T), want 418", fields["status"], fields["status"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Errorf("bytes = %v", fields["bytes"])
	}
	if fields["request_id"] != "abc" {
		t.Errorf("request_id = %v, want abc", fields["request_id"])
	}
}

func TestInternalErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	ts := setupTest(t, nil)
	ts.h.log = zap.New(core).Sugar()
	ts.closeDB()

	req := httptest.NewRequest("GET", "/strings", nil)
	rec := httptest.NewRecorder()
	ts.h.HandleList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if logs.FilterMessage("internal error").Len() != 1 {
		t.Error("internal error should be logged once")
	}
}
