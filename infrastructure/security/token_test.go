package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("unit-test-secret", time.Hour)

	t.Run("should validate a token it issued", func(t *testing.T) {
		req := require.New(t)

		token, err := issuer.Issue("user-123")
		req.NoError(err)
		req.NotEmpty(token)

		claims, err := issuer.Validate(token)
		req.NoError(err)
		req.Equal("user-123", claims.UserID)
		req.Equal("lingualink", claims.Issuer)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)

		other := NewTokenIssuer("different-secret", time.Hour)
		token, err := other.Issue("user-123")
		req.NoError(err)

		_, err = issuer.Validate(token)
		req.Error(err)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)

		expired := NewTokenIssuer("unit-test-secret", -time.Minute)
		token, err := expired.Issue("user-123")
		req.NoError(err)

		_, err = issuer.Validate(token)
		req.Error(err)
	})

	t.Run("should reject garbage input", func(t *testing.T) {
		req := require.New(t)

		_, err := issuer.Validate("not.a.jwt")
		req.Error(err)
	})
}

func TestSessionCookies_Token(t *testing.T) {
	cookies := NewSessionCookies("session", "", false, time.Hour)

	t.Run("should prefer the bearer header", func(t *testing.T) {
		req := require.New(t)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})

		req.Equal("header-token", cookies.Token(r))
	})

	t.Run("should fall back to the cookie", func(t *testing.T) {
		req := require.New(t)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})

		req.Equal("cookie-token", cookies.Token(r))
	})

	t.Run("should return empty when neither is present", func(t *testing.T) {
		req := require.New(t)

		r := httptest.NewRequest(http.MethodGet, "/", nil)

		req.Empty(cookies.Token(r))
	})
}

func TestSessionCookies_SetAndClear(t *testing.T) {
	cookies := NewSessionCookies("session", "example.com", true, time.Hour)

	t.Run("should write an http-only cookie", func(t *testing.T) {
		req := require.New(t)

		w := httptest.NewRecorder()
		cookies.Set(w, "the-token")

		result := w.Result().Cookies()
		req.Len(result, 1)
		req.Equal("the-token", result[0].Value)
		req.True(result[0].HttpOnly)
		req.True(result[0].Secure)
		req.Equal(int(time.Hour.Seconds()), result[0].MaxAge)
	})

	t.Run("should expire the cookie on clear", func(t *testing.T) {
		req := require.New(t)

		w := httptest.NewRecorder()
		cookies.Clear(w)

		result := w.Result().Cookies()
		req.Len(result, 1)
		req.Empty(result[0].Value)
		req.Negative(result[0].MaxAge)
	})
}
