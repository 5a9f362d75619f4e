package dependency

import (
	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/events"
	"github.com/lingualink/api/infrastructure/websocket"
)

func (c *Container) initWebSocket() {
	c.WSCore = websocket.NewCore(c.RoomRepo, c.MessageRepo, c.MessageUC, c.Logger.Log)

	go c.WSCore.Run(c.ctx)

	// Every instance consumes the shared event channel and feeds its own
	// hub, so pushes reach clients no matter where the write landed.
	// Profile updates also evict the local copy of the user document
	// before the fan-out, keeping cross-instance reads fresh.
	sink := events.InvalidatingSink(c.DistributedCache, c.WSCore.HandleEvent)
	c.EventConsumer = events.NewConsumer(cache.GetRedis(), c.Logger, sink)
	go c.EventConsumer.Run(c.ctx)

	c.Logger.Info("WebSocket components initialized successfully")
}
