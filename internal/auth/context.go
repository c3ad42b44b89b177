package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userIDKey is the context key for the authenticated user ID.
const userIDKey contextKey = "user_id"

// ContextWithUserID attaches the resolved identity to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user ID.
// Returns false if the request did not pass the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// MustUserIDFromContext retrieves the authenticated user ID.
// Panics if not present (use only behind the auth middleware).
func MustUserIDFromContext(ctx context.Context) string {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		panic("user ID not found in context - ensure auth middleware is applied")
	}
	return id
}
