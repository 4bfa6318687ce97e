// Package middleware provides HTTP middleware shared by the server.
package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"pagoscli/internal/config"
)

// RateLimit returns a middleware enforcing a global request rate. With
// limiting disabled it is a pass-through.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
