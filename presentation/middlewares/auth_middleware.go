package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/security"
)

const (
	UserContextKey = "user"
)

// AuthMiddleware resolves the session token (Authorization header or
// cookie) into a user and rejects the request when it cannot.
func AuthMiddleware(
	tokens *security.TokenIssuer,
	cookies *security.SessionCookies,
	userRepository repository.UserRepository,
	logger *logger.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			logger.Debug("rejected session token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired session",
			})
			c.Abort()
			return
		}

		user, err := userRepository.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn("session token for unknown user", zap.String("userID", claims.UserID), zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)

		c.Next()
	}
}

// GuestOnly rejects requests that already carry a valid session. Signing
// up or logging in while signed in is a client state error, not a retry.
func GuestOnly(tokens *security.TokenIssuer, cookies *security.SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c.Request)
		if token != "" {
			if _, err := tokens.Validate(token); err == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "already_authenticated",
					"message": "already signed in",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

func GetUserFromContext(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}

	u, ok := user.(*model.User)
	return u, ok
}
