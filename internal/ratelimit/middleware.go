package ratelimit

import (
	"net"
	"net/http"
)

// KeyFunc derives the client key for a request.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the response for a throttled request.
type RejectFunc func(w http.ResponseWriter, r *http.Request)

// ClientIP keys requests by remote host. Pair with chi's RealIP upstream
// when running behind a trusted proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware throttles requests per key. A disabled limiter returns next unchanged.
func Middleware(l *Limiter, key KeyFunc, reject RejectFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(next http.Handler) http.Handler {
		if !l.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(key(r)) {
				w.Header().Set("Retry-After", "1")
				if reject != nil {
					reject(w, r)
					return
				}
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
