package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"secretreels/internal/auth"
	"secretreels/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	user := &models.User{ID: uuid.New(), IsGuest: true}

	token, err := jwtAuth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := jwtAuth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, claims.IsGuest)
	assert.False(t, claims.IsModerator)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTAuth("secret-a").GenerateToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewJWTAuth("secret-b").ParseToken(token)
	assert.Error(t, err)
}

func TestAuthenticateAttachesSession(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	user := &models.User{ID: uuid.New(), IsModerator: true}
	token, err := jwtAuth.GenerateToken(user)
	require.NoError(t, err)

	var got *auth.Session
	handler := jwtAuth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFrom(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, got.IsModerator)
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")

	called := false
	handler := jwtAuth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, SessionFrom(r))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	handler := jwtAuth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
