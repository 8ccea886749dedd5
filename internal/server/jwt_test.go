package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/form-autofill/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		Issuer:          config.DefaultJWTIssuer,
		ExpirationHours: expirationHours,
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, config.DefaultJWTIssuer, claims.Issuer)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	service := setupTestJWTService(t, 24)
	good, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	otherSecret := NewJWTService(&config.JWTConfig{Secret: "another-secret-another-secret-1234", Issuer: config.DefaultJWTIssuer, ExpirationHours: 1})
	forged, err := otherSecret.GenerateToken(uuid.New())
	require.NoError(t, err)

	otherIssuer := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "someone-else", ExpirationHours: 1})
	foreign, err := otherIssuer.GenerateToken(uuid.New())
	require.NoError(t, err)

	noUser, err := service.GenerateToken(uuid.Nil)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"garbage", "not.a.token", "malformed"},
		{"wrong secret", forged, "signature"},
		{"wrong issuer", foreign, "issuer"},
		{"no user", noUser, "no user"},
		{"alg none", unsigned, "signature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	_, err = service.ValidateToken(good)
	assert.NoError(t, err)
}

func TestJWTService_TokenExpiration(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = service.ValidateToken(token)
	assert.NoError(t, err)

	service.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}
