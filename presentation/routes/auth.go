package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/presentation/controllers/auth"
	"github.com/lingualink/api/presentation/middlewares"
)

func AuthRoutes(router *gin.RouterGroup, controller auth.AuthController, authRequired, guestOnly gin.HandlerFunc, logger *logger.Logger) {
	strictLimiter := middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.StrictRateLimiterConfig())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", strictLimiter, guestOnly, controller.SignUp)
		authGroup.POST("/login", strictLimiter, guestOnly, controller.Login)
		authGroup.POST("/logout", controller.Logout)

		authGroup.GET("/me",
			authRequired,
			middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.LenientRateLimiterConfig()),
			controller.Me,
		)
	}
}
