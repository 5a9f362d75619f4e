package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/presentation/controllers/room"
	"github.com/lingualink/api/presentation/middlewares"
)

func RoomRoutes(router *gin.RouterGroup, controller room.RoomController, logger *logger.Logger) {
	rooms := router.Group("/rooms")
	rooms.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), logger, middlewares.ModerateRateLimiterConfig()))
	{
		rooms.POST("", controller.CreateRoom)
		rooms.GET("", controller.GetRooms)
		rooms.GET("/:id", controller.GetRoom)
		rooms.DELETE("/:id", controller.DeleteRoom)

		rooms.POST("/:id/join", controller.JoinRoom)
		rooms.POST("/:id/leave", controller.LeaveRoom)
		rooms.GET("/:id/members", controller.GetMembers)
		rooms.DELETE("/:id/members/:userId", controller.RemoveMember)
	}
}
