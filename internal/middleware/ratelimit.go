package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vinped/vinped/internal/cache"
)

// RateLimitConfig configures the per-IP limiter.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Cache   *cache.Cache
	Enabled bool
	RPS     int
	Burst   int
}

// RateLimitIP throttles requests per client IP using the Redis token
// bucket. Redis errors fail open: a broken limiter never takes the API
// down.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			result, err := cfg.Cache.CheckIPRateLimit(r.Context(), ip, cfg.RPS, cfg.Burst)
			if err != nil {
				cfg.Logger.Error("rate limit check failed", "error", err, "ip", ip)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.RPS))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if result.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			cfg.Logger.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			h.Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			writeRateLimited(w, result.RetryAfter)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	body := fmt.Sprintf(`{"error":{"code":"RATE_LIMITED","message":"Rate limit exceeded. Retry after %d seconds."}}`,
		int(retryAfter.Seconds()))
	_, _ = w.Write([]byte(body))
}

// clientIP resolves the caller address, preferring proxy headers. The
// first entry of X-Forwarded-For is the original client.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
