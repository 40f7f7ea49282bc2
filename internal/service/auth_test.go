package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aster/playground/internal/domain"
)

func newTestAuthService(secret string) *AuthService {
	return NewAuthService(NewUserService(&stubRepo{err: domain.ErrUnavailable}), AuthConfig{
		JWTSecret: secret,
		AppURL:    "http://localhost:3000",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService("test-secret")

	principal := domain.Principal{ExternalID: "google-123", Email: "a@x.com", Name: "Alice"}
	pair, err := svc.IssueTokens(principal)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	got, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	svc := newTestAuthService("test-secret")

	pair, err := svc.IssueTokens(domain.Principal{ExternalID: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService("secret-one")
	verifier := newTestAuthService("secret-two")

	pair, err := issuer.IssueTokens(domain.Principal{ExternalID: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsMissingEmailClaim(t *testing.T) {
	svc := newTestAuthService("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"type": "access",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshTokensRoundTrip(t *testing.T) {
	svc := newTestAuthService("test-secret")

	principal := domain.Principal{ExternalID: "u1", Email: "a@x.com"}
	pair, err := svc.IssueTokens(principal)
	require.NoError(t, err)

	fresh, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	got, err := svc.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal, got)

	// An access token must not be usable as a refresh token.
	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
