package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/devfolio/devfolio/pkg/slogx"
)

// Session is the result of verifying a bearer token: the acting user and
// the token's own identifier.
type Session struct {
	UserID  string
	TokenID string
}

// SessionVerifier validates a raw bearer token and resolves the acting
// identity. Implementations may consult storage (e.g. a revocation list),
// hence the context.
type SessionVerifier interface {
	VerifySession(ctx context.Context, raw string) (Session, error)
}

// AuthnMiddleware enforces bearer authentication. Every failure mode
// (missing header, malformed token, bad signature, expiry, revocation)
// collapses into the same 401 so callers cannot probe which check failed.
func AuthnMiddleware(v SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			sess, err := v.VerifySession(ctx, raw)
			if err != nil {
				log.Warn("session verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, sess.UserID)
			ctx = context.WithValue(ctx, CtxKeyTokenID, sess.TokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
