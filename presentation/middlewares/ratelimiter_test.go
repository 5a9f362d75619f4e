package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lingualink/api/domain/model"
)

func TestLimitSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should key authenticated requests by user ID", func(t *testing.T) {
		req := require.New(t)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/rooms", nil)
		c.Set(UserContextKey, &model.User{ID: "user-1", Username: "alice"})

		req.Equal("user-1", limitSubject(c))
	})

	t.Run("should key anonymous requests by client IP", func(t *testing.T) {
		req := require.New(t)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/auth/login", nil)
		c.Request.RemoteAddr = "203.0.113.9:51442"

		req.Equal("ip:203.0.113.9", limitSubject(c))
	})
}
