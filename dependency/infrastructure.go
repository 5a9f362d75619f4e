package dependency

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/lingualink/api/infrastructure/cache"
	"github.com/lingualink/api/infrastructure/jobs"
	"github.com/lingualink/api/infrastructure/metrics"
	"github.com/lingualink/api/infrastructure/metrics/exporters"
	"github.com/lingualink/api/infrastructure/persistence/database"
	"github.com/lingualink/api/infrastructure/persistence/migration"
	"github.com/lingualink/api/infrastructure/security"
	"github.com/lingualink/api/infrastructure/storage"
)

func (c *Container) initInfrastructure() error {
	tracerProvider, err := exporters.InitJaegerExporter(c.Config)
	if err != nil {
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
		c.Logger.Warn("Using noop tracer provider as fallback")
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)

		go exporters.SendStartupTrace(c.Config)
	}
	c.Tracer = otel.Tracer("lingualink")

	c.MetricsManager = metrics.NewManager()

	if c.Config.Sentry.Dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:            c.Config.Sentry.Dsn,
			Debug:          c.Config.Sentry.Debug,
			SendDefaultPII: c.Config.Sentry.SendDefaultPII,
			Environment:    c.Config.Server.RunMode,
		}); err != nil {
			c.Logger.Warn("failed to initialize sentry", zap.Error(err))
		}
	}

	// The distributed cache shares the keyspace with the raw-client
	// repositories, so the prefix stays empty.
	c.DistributedCache = cache.NewDistributedCache(cache.GetRedis(), "", cache.DefaultOptions())

	store, err := c.initStorage()
	if err != nil {
		return err
	}
	c.Storage = store

	if err := database.InitDb(c.Config, c.Logger.Log); err != nil {
		return fmt.Errorf("error initializing postgres: %w", err)
	}
	migration.Up1()

	c.TokenIssuer = security.NewTokenIssuer(c.Config.Auth.JwtSecret, c.Config.Auth.TokenLifetime)
	c.SessionCookies = security.NewSessionCookies(
		c.Config.Auth.CookieName,
		c.Config.Auth.CookieDomain,
		c.Config.Auth.SecureCookies,
		c.Config.Auth.TokenLifetime,
	)

	c.Logger.Info("Infrastructure initialized successfully")
	return nil
}

func (c *Container) initStorage() (storage.Driver, error) {
	switch c.Config.Storage.Driver {
	case "s3":
		return storage.NewS3Storage(c.Config)
	case "local", "":
		return storage.NewLocalStorage(c.Config)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", c.Config.Storage.Driver)
	}
}

func (c *Container) initBackgroundJobs(ctx context.Context) {
	c.AuditRetentionJob = jobs.NewAuditRetentionJob(c.AuditRepo, c.Logger, 6*time.Hour, 90*24*time.Hour)

	go func() {
		time.Sleep(2 * time.Second) // Wait for all dependencies to initialize
		c.Logger.Info("Starting background jobs...")
		c.AuditRetentionJob.Start(ctx)
	}()

	c.Logger.Info("Background jobs initialized and started successfully")
}
