package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/pkg/httpx"
	"github.com/devfolio/devfolio/pkg/jwtx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// TokenService issues and verifies session tokens. Verification checks the
// persisted denylist after the signature, so a logout takes effect
// immediately everywhere.
type TokenService struct {
	Store    store.Store
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// IssuedToken bundles a freshly signed token with its lifetime so handlers
// can report expiry without re-parsing the JWT.
type IssuedToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// Issue signs a session token for the user.
func (s *TokenService) Issue(ctx context.Context, userID string) (IssuedToken, error) {
	// Negative TTLs are honoured so tests can mint already-expired tokens.
	ttl := s.TTL
	if ttl == 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims(userID, s.Issuer, ttl, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign session token: %w", err)
	}

	return IssuedToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifySession implements httpx.SessionVerifier. Signature, expiry and
// issuer checks come first; only a structurally valid token earns a denylist
// lookup.
func (s *TokenService) VerifySession(ctx context.Context, raw string) (httpx.Session, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return httpx.Session{}, err
	}

	revoked, err := s.Store.RevokedTokens().IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return httpx.Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return httpx.Session{}, ErrTokenRevoked
	}

	return httpx.Session{UserID: claims.Subject, TokenID: claims.ID}, nil
}

// Revoke denylists a session by its jti. Callers hold a jti only after the
// token verified, so there is no way to fill the table with garbage. The
// row's lifetime is now+TTL, an upper bound on however long the token
// itself could still be valid.
func (s *TokenService) Revoke(ctx context.Context, jti string) error {
	if jti == "" {
		return fmt.Errorf("%w: empty token id", ErrValidation)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	if err := s.Store.RevokedTokens().RevokeToken(ctx, jti, time.Now().UTC().Add(ttl)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	slogx.FromContext(ctx).Info("session revoked", "jti", jti)
	return nil
}
