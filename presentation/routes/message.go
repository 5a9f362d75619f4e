package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/presentation/controllers/message"
	"github.com/lingualink/api/presentation/middlewares"
)

func MessageRoutes(router *gin.RouterGroup, controller message.MessageController, logger *logger.Logger) {
	router.POST("/rooms/:id/messages",
		middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.MessageSendingRateLimiterConfig()),
		controller.SendMessage,
	)
	router.GET("/rooms/:id/messages",
		middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.LenientRateLimiterConfig()),
		controller.GetMessages,
	)
	router.GET("/rooms/:id/messages/count", controller.GetMessageCount)
}
