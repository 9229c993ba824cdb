package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/support-chat/chat-service/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &model.User{ID: 42, Username: "alice", IsAdmin: true}
	token, err := IssueToken("secret", u)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := IssueToken("secret", &model.User{ID: 1, Username: "a"})
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("authorization header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		assert.Equal(t, "abc", TokenFromRequest(r))
	})

	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?token=xyz", nil)
		assert.Equal(t, "xyz", TokenFromRequest(r))
	})

	t.Run("session cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})
		assert.Equal(t, "cookie-token", TokenFromRequest(r))
	})

	t.Run("header wins over query", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?token=q", nil)
		r.Header.Set("Authorization", "Bearer h")
		assert.Equal(t, "h", TokenFromRequest(r))
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, "", TokenFromRequest(r))
	})
}
