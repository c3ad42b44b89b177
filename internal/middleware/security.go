package middleware

import (
	"net/http"
)

// SecurityConfig controls the security header middleware.
type SecurityConfig struct {
	// IsDevelopment disables HSTS so local HTTP keeps working.
	IsDevelopment bool
	// AllowedOrigins for CORS. Empty means no CORS headers.
	AllowedOrigins []string
	// MaxRequestBodySize caps request bodies, in bytes.
	MaxRequestBodySize int64
}

// DefaultSecurityConfig returns production defaults: HSTS on, no CORS
// origins, 1MB body cap.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxRequestBodySize: 1 << 20,
	}
}

// Security sets the response headers a JSON API should always carry.
// The CSP and Permissions-Policy are maximally restrictive since no
// HTML is ever served; X-XSS-Protection is explicitly "0" because the
// legacy filter causes more problems than it solves.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")

			// Responses carry account data; never cache.
			h.Set("Cache-Control", "no-store")

			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize rejects requests whose declared length exceeds maxBytes
// and wraps the body in a MaxBytesReader to catch undeclared overruns.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				http.Error(w, `{"error":{"code":"PAYLOAD_TOO_LARGE","message":"Request body too large"}}`, http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
