package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator accepts a fixed set of tokens.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(userID), nil
}

type testClaims uuid.UUID

func (c testClaims) GetUserID() uuid.UUID {
	return uuid.UUID(c)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := &testTokenValidator{validTokens: map[string]uuid.UUID{"good-token": userID}}

	tests := []struct {
		name       string
		header     string
		required   bool
		wantStatus int
		wantUser   bool
	}{
		{"valid token", "Bearer good-token", true, http.StatusOK, true},
		{"lowercase scheme", "bearer good-token", true, http.StatusOK, true},
		{"missing header", "", true, http.StatusUnauthorized, false},
		{"invalid token", "Bearer bad-token", true, http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good-token", true, http.StatusUnauthorized, false},
		{"extra parts", "Bearer good-token extra", true, http.StatusUnauthorized, false},
		{"optional without header", "", false, http.StatusOK, false},
		{"optional with valid token", "Bearer good-token", false, http.StatusOK, true},
		{"optional with invalid token", "Bearer bad-token", false, http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser uuid.UUID
			var gotErr error
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, gotErr = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			mw := AuthMiddleware(validator)
			if !tt.required {
				mw = OptionalAuthMiddleware(validator)
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			mw(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser {
				require.NoError(t, gotErr)
				assert.Equal(t, userID, gotUser)
			} else if w.Code == http.StatusOK {
				assert.Error(t, gotErr)
			}
		})
	}
}

func TestWithUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
