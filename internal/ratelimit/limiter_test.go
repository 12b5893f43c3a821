package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 3})
	defer l.Stop()

	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return frozen }

	for i := range 3 {
		if !l.Allow("a") {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if l.Allow("a") {
		t.Fatal("request beyond burst allowed")
	}
	if !l.Allow("b") {
		t.Fatal("other client throttled")
	}
}

func TestLimiter_Refills(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1})
	defer l.Stop()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") {
		t.Fatal("first request denied")
	}
	if l.Allow("a") {
		t.Fatal("second request allowed without refill")
	}
	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("request denied after refill")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := New(Config{RPS: 0})
	defer l.Stop()

	for range 100 {
		if !l.Allow("a") {
			t.Fatal("disabled limiter denied")
		}
	}
	if l.Len() != 0 {
		t.Errorf("disabled limiter tracked %d clients", l.Len())
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l := New(Config{RPS: 10, Burst: 10, CleanupInterval: time.Minute})
	defer l.Stop()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(2 * time.Minute)
	l.Allow("fresh")

	l.Cleanup()
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	l := New(Config{RPS: 1000, Burst: 1000})
	defer l.Stop()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				l.Allow(string(rune('a' + i%5)))
			}
		}()
	}
	wg.Wait()

	if l.Len() != 5 {
		t.Errorf("Len() = %d, want 5", l.Len())
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1})
	l.Stop()
	l.Stop()
}

func TestMiddleware(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1})
	defer l.Stop()
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return frozen }

	rejected := 0
	reject := func(w http.ResponseWriter, _ *http.Request) {
		rejected++
		w.WriteHeader(http.StatusTooManyRequests)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := Middleware(l, nil, reject)(ok)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/strings", http.NoBody)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := send("10.0.0.1:1111"); rr.Code != http.StatusOK {
		t.Fatalf("first: %d", rr.Code)
	}
	rr := send("10.0.0.1:2222")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second from same host: %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Error("Retry-After missing")
	}
	if rr := send("10.0.0.2:1111"); rr.Code != http.StatusOK {
		t.Fatalf("other host: %d", rr.Code)
	}
	if rejected != 1 {
		t.Errorf("rejected = %d", rejected)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := ClientIP(req); got != "192.0.2.1" {
		t.Errorf("ClientIP = %q", got)
	}
	req.RemoteAddr = "no-port"
	if got := ClientIP(req); got != "no-port" {
		t.Errorf("ClientIP = %q", got)
	}
}
