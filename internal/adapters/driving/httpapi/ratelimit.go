package httpapi

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

const (
	// defaultQueryRate is the sustained per-client query rate.
	defaultQueryRate = rate.Limit(10)

	// defaultQueryBurst is the per-client burst allowance.
	defaultQueryBurst = 20
)

// visitorLimiter applies a token-bucket rate limit per remote address.
// Aggregators fan queries out to many endpoints at once; the limit keeps
// one misbehaving client from starving the index.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newVisitorLimiter(limit rate.Limit, burst int) *visitorLimiter {
	return &visitorLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// allow reports whether the client may proceed.
func (l *visitorLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	l.mu.Lock()
	limiter, ok := l.visitors[host]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.visitors[host] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// middleware rejects over-limit requests with 429.
func (l *visitorLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r.RemoteAddr) {
			respondJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
