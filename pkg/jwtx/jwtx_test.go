package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/devfolio/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *jwtx.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := jwtx.NewSigner(kid, priv)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-001")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	claims := jwtx.NewSessionClaims("user-123", "devfolio", time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, claims.ID, got.ID)
	require.Len(t, got.ID, 22) // 128-bit jti, base64url without padding
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-001")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	token, err := signer.Sign(jwtx.NewSessionClaims("user-123", "devfolio", time.Hour, time.Now()))
	require.NoError(t, err)

	// Swap the payload for one asserting a different subject. The signature
	// no longer matches, so verification must fail.
	other, err := signer.Sign(jwtx.NewSessionClaims("user-456", "devfolio", time.Hour, time.Now()))
	require.NoError(t, err)

	origParts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := origParts[0] + "." + otherParts[1] + "." + origParts[2]

	_, err = verifier.Verify(forged)
	require.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-001")
	imposter := newTestSigner(t, "key-001") // same kid, different key

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	token, err := imposter.Sign(jwtx.NewSessionClaims("user-123", "devfolio", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-001")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	token, err := signer.Sign(jwtx.NewSessionClaims("user-123", "devfolio", -time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsMalformedAndUnknownKid(t *testing.T) {
	t.Parallel()

	keys := jwtx.NewKeySet()
	keys.AddSigner(newTestSigner(t, "key-001"))
	verifier := jwtx.NewVerifier(keys, "devfolio")

	_, err := verifier.Verify("definitely.not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)

	stranger := newTestSigner(t, "key-999")
	token, err := stranger.Sign(jwtx.NewSessionClaims("user-123", "devfolio", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-001")
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	token, err := signer.Sign(jwtx.NewSessionClaims("user-123", "someone-else", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestPEMRoundTrip(t *testing.T) {
	t.Parallel()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	pemBytes, err := jwtx.MarshalPKCS8PEM(priv)
	require.NoError(t, err)

	signer, err := jwtx.NewSignerFromPEM("key-001", pemBytes)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifier(keys, "devfolio")

	token, err := signer.Sign(jwtx.NewSessionClaims("user-123", "devfolio", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.NoError(t, err)
}
