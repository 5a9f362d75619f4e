package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lingualink/api/infrastructure/security"
)

func guestOnlyRouter(t *testing.T) (*gin.Engine, *security.TokenIssuer) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	cookies := security.NewSessionCookies("session", "", false, time.Hour)

	router := gin.New()
	router.POST("/login", GuestOnly(tokens, cookies), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, tokens
}

func TestGuestOnly(t *testing.T) {
	t.Run("should pass through when no session is presented", func(t *testing.T) {
		router, _ := guestOnlyRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should reject when a valid session is presented", func(t *testing.T) {
		router, tokens := guestOnlyRouter(t)

		token, err := tokens.Issue("user-1")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("should pass through when the session token is invalid", func(t *testing.T) {
		router, _ := guestOnlyRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}
