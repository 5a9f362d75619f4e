package dependency

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/metrics"
	"github.com/lingualink/api/infrastructure/persistence/database"
	"github.com/lingualink/api/infrastructure/storage"
	authCtrl "github.com/lingualink/api/presentation/controllers/auth"
	messageCtrl "github.com/lingualink/api/presentation/controllers/message"
	roomCtrl "github.com/lingualink/api/presentation/controllers/room"
	userCtrl "github.com/lingualink/api/presentation/controllers/user"
	wsCtrl "github.com/lingualink/api/presentation/controllers/websocket"
	"github.com/lingualink/api/presentation/middlewares"
	"github.com/lingualink/api/presentation/routes"
)

func (c *Container) initControllers() {
	c.AuthController = authCtrl.NewAuthController(c.AuthUC, c.SessionCookies)
	c.UserController = userCtrl.NewUserController(c.UserUC)
	c.RoomController = roomCtrl.NewRoomController(c.RoomUC, c.UserUC)
	c.MessageController = messageCtrl.NewMessageController(c.MessageUC)
	c.WebsocketController = wsCtrl.NewWebSocketController(c.WSCore, c.Logger)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	// Development runs without S3; avatars are served straight from disk.
	if local, ok := c.Storage.(*storage.LocalStorage); ok {
		router.Static("/api/v1/avatars", local.BasePath())
	}

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	authRequired := middlewares.AuthMiddleware(c.TokenIssuer, c.SessionCookies, c.UserRepo, c.Logger)
	guestOnly := middlewares.GuestOnly(c.TokenIssuer, c.SessionCookies)

	v1 := router.Group("/api/v1")
	{
		routes.AuthRoutes(v1, c.AuthController, authRequired, guestOnly, c.Logger)

		protected := v1.Group("")
		protected.Use(authRequired)

		protected.Use(func(ctx *gin.Context) {
			if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
				if user, exists := middlewares.GetUserFromContext(ctx); exists {
					hub.Scope().SetUser(sentry.User{
						ID:        user.ID,
						Username:  user.Username,
						IPAddress: ctx.ClientIP(),
					})
				}
			}
			ctx.Next()
		})

		routes.UserRoutes(protected, c.UserController, c.Logger)
		routes.RoomRoutes(protected, c.RoomController, c.Logger)
		routes.MessageRoutes(protected, c.MessageController, c.Logger)
		routes.WebsocketRoutes(protected, c.WebsocketController)
	}
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.AuditRetentionJob != nil {
		c.AuditRetentionJob.Stop()
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.TracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	cache.CloseRedis()
	_ = c.DistributedCache.Close()

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	database.CloseDb()

	return nil
}
