package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4|/contact"); !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if ok, _ := rl.Allow("1.2.3.4|/contact"); ok {
		t.Error("hit over the limit should be denied")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	rl.Allow("a|/contact")
	if ok, _ := rl.Allow("b|/contact"); !ok {
		t.Error("different key should have its own window")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	rl.Allow("k")
	if ok, _ := rl.Allow("k"); ok {
		t.Fatal("second hit inside window should be denied")
	}

	time.Sleep(15 * time.Millisecond)
	if ok, _ := rl.Allow("k"); !ok {
		t.Error("hit after window reset should be allowed")
	}
}

func TestRateLimiterHandlerReturns429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/contact", nil)
	req.RemoteAddr = "1.2.3.4:5678"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}
}

func TestRateLimiterHandlerKeysOnForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	makeReq := func(ip string) *http.Request {
		req := httptest.NewRequest("POST", "/contact", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", ip)
		return req
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, makeReq("203.0.113.7"))
	if rr.Code != http.StatusOK {
		t.Fatalf("first client: got %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, makeReq("203.0.113.8"))
	if rr.Code != http.StatusOK {
		t.Errorf("second client should have its own window, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, makeReq("203.0.113.7"))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("repeat client: got %d, want 429", rr.Code)
	}
}
