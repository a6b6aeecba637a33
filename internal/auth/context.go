package auth

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID stamps the requesting user's id onto the context. The HTTP
// layer populates it from the X-User-ID header set by the (out of scope)
// authentication gateway.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the requesting user's id, or "system" when the operation
// originates from an internal worker rather than a request.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok && val != "" {
		return val
	}
	return "system"
}
