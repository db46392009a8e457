package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterThrottlesPerClient(t *testing.T) {
	limiter := NewRateLimiter(60, 2, nil)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/open", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, hit("10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1234"))

	// A different client has its own budget.
	require.Equal(t, http.StatusOK, hit("10.0.0.2:1234"))
}

func TestClientIDPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", clientID(req))
}
