package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/presentation/controllers/user"
	"github.com/lingualink/api/presentation/middlewares"
)

func UserRoutes(router *gin.RouterGroup, controller user.UserController, logger *logger.Logger) {
	users := router.Group("/users")
	users.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.ModerateRateLimiterConfig()))
	{
		users.GET("", controller.GetUsers)
		users.GET("/:id", controller.GetUser)
		users.PATCH("/me", controller.UpdateUsername)
	}

	// Avatar uploads get the strict limiter.
	router.PUT("/users/me/avatar",
		middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.StrictRateLimiterConfig()),
		controller.UpdateAvatar,
	)
}
