package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret-0123456789", AccessTokenExp: time.Hour, TokenIssuer: "deptportal"})
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := newTestJWT()
	issued, err := svc.GenerateToken("uid-1", "admin@example.edu")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.SessionID)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, issued.SessionID, claims.ID)
	assert.Equal(t, "admin@example.edu", claims.Email)
}

func TestJWT_Expired(t *testing.T) {
	svc := newTestJWT()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := svc.GenerateToken("uid-1", "a@b.c")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_Rejects(t *testing.T) {
	svc := newTestJWT()
	issued, err := svc.GenerateToken("uid-1", "a@b.c")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another-secret-987654", AccessTokenExp: time.Hour, TokenIssuer: "deptportal"})
	_, err = other.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong key")

	foreign := NewJWTService(JWTConfig{SecretKey: "test-secret-0123456789", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	_, err = foreign.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong issuer")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "uid-1", ID: "x", Issuer: "deptportal"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = ExtractBearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("abc.def")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "wrong"))

	assert.Error(t, CheckPasswordStrength("short1"))
	assert.Error(t, CheckPasswordStrength("onlyletters"))
	assert.Error(t, CheckPasswordStrength("1234567890"))
	assert.NoError(t, CheckPasswordStrength("letters123"))
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	s := &Session{UID: "uid-1", Role: "admin"}
	ctx = WithSession(ctx, s)
	assert.Same(t, s, FromContext(ctx))
	assert.True(t, FromContext(ctx).IsAdmin())

	var missing *Session
	assert.False(t, missing.IsAdmin())
}
