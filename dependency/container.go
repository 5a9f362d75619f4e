package dependency

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/trace"
	octrace "go.opentelemetry.io/otel/trace"

	auditUseCase "github.com/lingualink/api/application/usecases/audit"
	authUseCase "github.com/lingualink/api/application/usecases/auth"
	messageUseCase "github.com/lingualink/api/application/usecases/message"
	roomUseCase "github.com/lingualink/api/application/usecases/room"
	userUseCase "github.com/lingualink/api/application/usecases/user"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/config"
	"github.com/lingualink/api/infrastructure/events"
	"github.com/lingualink/api/infrastructure/jobs"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/metrics"
	"github.com/lingualink/api/infrastructure/security"
	"github.com/lingualink/api/infrastructure/storage"
	"github.com/lingualink/api/infrastructure/websocket"
	authCtrl "github.com/lingualink/api/presentation/controllers/auth"
	messageCtrl "github.com/lingualink/api/presentation/controllers/message"
	roomCtrl "github.com/lingualink/api/presentation/controllers/room"
	userCtrl "github.com/lingualink/api/presentation/controllers/user"
	wsCtrl "github.com/lingualink/api/presentation/controllers/websocket"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	Tracer         octrace.Tracer
	MetricsManager metrics.Manager

	DistributedCache *cache.DistributedCache
	Storage          storage.Driver
	EventPublisher   *events.Publisher
	EventConsumer    *events.Consumer
	TokenIssuer      *security.TokenIssuer
	SessionCookies   *security.SessionCookies
	AuditRecorder    *auditUseCase.Recorder

	UserRepo    repository.UserRepository
	RoomRepo    repository.RoomRepository
	MessageRepo repository.MessageRepository
	AuditRepo   repository.AuditLogRepository

	WSCore *websocket.Core

	AuthUC    authUseCase.AuthUseCase
	UserUC    userUseCase.UserUseCase
	RoomUC    roomUseCase.RoomUseCase
	MessageUC messageUseCase.MessageUseCase

	AuthController      authCtrl.AuthController
	UserController      userCtrl.UserController
	RoomController      roomCtrl.RoomController
	MessageController   messageCtrl.MessageController
	WebsocketController wsCtrl.WebSocketController

	AuditRetentionJob *jobs.AuditRetentionJob

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := logger.NewLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing Lingua Link API dependencies")
	if err := cache.InitRedis(c.Config); err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initUseCases()

	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.initWebSocket()

	c.initControllers()

	c.initBackgroundJobs(c.ctx)

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}
