package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/cache"
	"github.com/vinped/vinped/internal/metrics"
	"github.com/vinped/vinped/internal/repository"
)

// TokenVerifier verifies a bearer token and returns the user ID it binds.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier TokenVerifier

	// CheckSessions switches the gate to strict mode: in addition to
	// signature and expiry, the token must not be revoked in Redis and
	// must still have a session row. Off by default; without it a
	// logged-out token stays valid until its natural expiry.
	CheckSessions bool
	Repository    *repository.Repository
	Cache         *cache.Cache

	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies
// it, and attaches the resolved user ID to the request context.
// Missing or malformed headers and failed verification reject with 401;
// only an unexpected internal fault produces a 500.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_or_malformed_header"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthFailure("missing_header")
				writeAuthError(w)
				return
			}

			userID, err := cfg.Verifier.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", verifyFailureReason(err)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthFailure(verifyFailureReason(err))
				writeAuthError(w)
				return
			}

			if cfg.CheckSessions {
				revoked, err := sessionRevoked(r.Context(), cfg, token)
				if err != nil {
					cfg.Logger.Error("session check failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeInternalError(w)
					return
				}
				if revoked {
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "session_revoked"),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					recorder.IncAuthFailure("session_revoked")
					writeAuthError(w)
					return
				}
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionRevoked checks the Redis revocation marker first and falls
// back to the sessions table.
func sessionRevoked(ctx context.Context, cfg AuthConfig, token string) (bool, error) {
	if cfg.Cache != nil && cfg.Cache.SessionRevoked(ctx, token) {
		return true, nil
	}

	exists, err := cfg.Repository.SessionExists(ctx, token)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// BearerToken extracts the token from the Authorization header.
// Returns false when the header is absent or not of the Bearer scheme.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}

	return token, true
}

// verifyFailureReason maps verification errors to log/metric labels.
func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, auth.ErrTokenSignature):
		return "bad_signature"
	default:
		return "token_malformed"
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing token"}}`))
}

// writeInternalError writes a generic 500 response with no detail.
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"An internal error occurred"}}`))
}
