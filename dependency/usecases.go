package dependency

import (
	auditUseCase "github.com/lingualink/api/application/usecases/audit"
	authUseCase "github.com/lingualink/api/application/usecases/auth"
	messageUseCase "github.com/lingualink/api/application/usecases/message"
	roomUseCase "github.com/lingualink/api/application/usecases/room"
	userUseCase "github.com/lingualink/api/application/usecases/user"
	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/events"
)

func (c *Container) initUseCases() {
	c.EventPublisher = events.NewPublisher(cache.GetRedis())
	c.AuditRecorder = auditUseCase.NewRecorder(c.AuditRepo, c.Logger)

	c.AuthUC = authUseCase.NewAuthUseCase(c.UserRepo, c.TokenIssuer, c.Storage, c.EventPublisher, c.AuditRecorder, c.Logger)
	c.UserUC = userUseCase.NewUserUseCase(c.UserRepo, c.Storage, c.EventPublisher, c.AuditRecorder, c.Logger)
	c.RoomUC = roomUseCase.NewRoomUseCase(c.RoomRepo, c.EventPublisher, c.AuditRecorder, c.Logger)
	c.MessageUC = messageUseCase.NewMessageUseCase(c.MessageRepo, c.RoomRepo, c.EventPublisher, c.AuditRecorder, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}
