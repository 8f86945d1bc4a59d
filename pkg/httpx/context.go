package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyTokenID ctxKey = "token_id"
)

// UserIDFromContext returns the authenticated user ID placed into the
// context by AuthnMiddleware, or "" if the request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// TokenIDFromContext returns the jti of the presented session token, used by
// the logout path to revoke exactly the token that made the request.
func TokenIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTokenID).(string); ok {
		return v
	}
	return ""
}
