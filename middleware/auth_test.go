package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/leagues", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	var gotUserID int
	var gotRole string
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotUserID, err = GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotRole, err = GetUserRoleFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	token := signedToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"role":    RoleCommissioner,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, gotUserID)
	assert.Equal(t, RoleCommissioner, gotRole)
}

func TestAuthenticateRejections(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	tests := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", signedToken(t, "another-secret", jwt.MapClaims{"user_id": 1})},
		{"expired token", signedToken(t, testSecret, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(tt.token))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireCommissioner(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(RequireCommissioner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	commissioner := signedToken(t, testSecret, jwt.MapClaims{"user_id": 1, "role": RoleCommissioner})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(commissioner))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	owner := signedToken(t, testSecret, jwt.MapClaims{"user_id": 2, "role": RoleOwner})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(owner))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
