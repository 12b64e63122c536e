package auth

import (
	"testing"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.AuthConfig{
		JWTSecret: "test-secret-key-that-is-long-enough-for-hs256",
		Issuer:    "ocr-data-insertion",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("ocr-worker-1", "textract-bridge", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ocr-worker-1", claims.Subject)
	assert.Equal(t, "textract-bridge", claims.Client)
	assert.Equal(t, "ocr-data-insertion", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestService()
	issued := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken("ocr-worker-1", "", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := newTestService()

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.AuthConfig{JWTSecret: "another-secret", Issuer: "ocr-data-insertion"})
		token, err := other.GenerateToken("ocr-worker-1", "", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.AuthConfig{JWTSecret: "test-secret-key-that-is-long-enough-for-hs256", Issuer: "someone-else"})
		token, err := other.GenerateToken("ocr-worker-1", "", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := svc.GenerateToken("", "", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "ocr-data-insertion", Subject: "x"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
