package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client, keyed by the caller's address.
type RateLimiter struct {
	logger   *slog.Logger
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

// NewRateLimiter builds a limiter allowing requestsPerMinute sustained
// requests with the given burst per client.
func NewRateLimiter(requestsPerMinute float64, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		logger:   logger,
		limit:    rate.Limit(requestsPerMinute / 60.0),
		burst:    burst,
		visitors: make(map[string]*rate.Limiter),
	}
}

// Middleware rejects over-limit requests with 429 before they reach the
// handler.
func (r *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		client := clientID(req)
		if !r.obtainLimiter(client).Allow() {
			r.logger.Warn("rate limited", "client", client, "path", req.URL.Path)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *RateLimiter) obtainLimiter(client string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	limiter, ok := r.visitors[client]
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.visitors[client] = limiter
	}
	return limiter
}

func clientID(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
