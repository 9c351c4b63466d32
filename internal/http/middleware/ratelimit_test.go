package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	if got := KeyByUserOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("ip key = %q", got)
	}
	c.Set(ctxKeyUserID, DefaultUserID)
	if got := KeyByUserOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("default user should share the ip bucket, got %q", got)
	}
	c.Set(ctxKeyUserID, "u123")
	if got := KeyByUserOrIP()(c); got != "user:u123" {
		t.Fatalf("user key = %q", got)
	}
}

func TestRateLimiter_Handler429AndBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.0001, 1, func(*gin.Context) string { return "k" })

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/replay", func(c *gin.Context) { c.Set(ctxKeyRateBypass, true) }, rl.Handler(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("first = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("second = %d retry=%q", w.Code, w.Header().Get("Retry-After"))
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "too_many_requests" || body["request_id"] == "" {
		t.Fatalf("429 body = %v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/replay", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("bypass = %d", w.Code)
	}
}

func TestRateLimiter_BucketsAndSweep(t *testing.T) {
	rl := NewRateLimiter(1, 0, nil)
	if rl.burst != 1 || rl.keyFn == nil {
		t.Fatalf("defaults not applied: burst=%d", rl.burst)
	}

	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	rl.gcEvery = 3

	a := rl.limiter("a")
	if rl.limiter("a") != a {
		t.Fatal("bucket should be reused")
	}
	now = now.Add(rl.ttl)
	// Third lookup triggers the sweep, which drops "a" before "b" is created.
	rl.limiter("b")
	if rl.Len() != 1 {
		t.Fatalf("buckets after sweep = %d", rl.Len())
	}
	if rl.limiter("a") == a {
		t.Fatal("expired bucket should be recreated")
	}
}
