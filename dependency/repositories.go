package dependency

import (
	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/persistence/repository"
)

func (c *Container) initRepositories() {
	redisClient := cache.GetRedis()

	c.UserRepo = repository.NewUserRepository(c.DistributedCache, c.Tracer)
	c.RoomRepo = repository.NewRoomRepository(redisClient, c.Tracer)
	c.MessageRepo = repository.NewMessageRepository(redisClient)
	c.AuditRepo = repository.NewAuditLogRepository(c.Logger.Log)

	c.Logger.Info("Repositories initialized successfully")
}
