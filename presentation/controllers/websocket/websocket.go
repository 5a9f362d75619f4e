package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/websocket"
	"github.com/lingualink/api/presentation/middlewares"
)

type WebSocketController interface {
	HandleConnection(ctx *gin.Context)
}

type webSocketController struct {
	wsCore *websocket.Core
	logger *logger.Logger
}

func NewWebSocketController(wsCore *websocket.Core, logger *logger.Logger) WebSocketController {
	return &webSocketController{
		wsCore: wsCore,
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated request to a socket. The
// connection starts subscribed to the lobby; the client subscribes to
// room topics over the socket itself.
func (c *webSocketController) HandleConnection(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "authentication required",
		})
		return
	}

	conn, err := c.wsCore.Manager().Upgrade(ctx.Writer, ctx.Request)
	if err != nil {
		c.logger.Error("websocket upgrade failed",
			zap.String("userID", user.ID),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "upgrade_failed",
			"message": "failed to upgrade connection",
		})
		return
	}

	client := websocket.NewClient(conn, user.ID, c.logger.Log)

	c.wsCore.Register() <- client

	go client.WritePump()
	go client.ReadPump(c.wsCore)
}
