package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/logger"
)

// AuditRetentionJob trims old audit rows on a fixed interval so the table
// does not grow without bound.
type AuditRetentionJob struct {
	auditLogs repository.AuditLogRepository
	logger    *logger.Logger
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
}

func NewAuditRetentionJob(
	auditLogs repository.AuditLogRepository,
	logger *logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *AuditRetentionJob {
	return &AuditRetentionJob{
		auditLogs: auditLogs,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopChan:  make(chan struct{}),
	}
}

func (j *AuditRetentionJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Audit retention job started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	j.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			j.runCleanup(ctx)
		case <-j.stopChan:
			j.logger.Info("Audit retention job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Audit retention job context cancelled")
			return
		}
	}
}

func (j *AuditRetentionJob) Stop() {
	close(j.stopChan)
}

func (j *AuditRetentionJob) runCleanup(ctx context.Context) {
	startTime := time.Now()
	cutoff := startTime.Add(-j.retention)

	deleted, err := j.auditLogs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Audit retention job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return
	}

	j.logger.Info("Audit retention job completed",
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(startTime)),
	)
}
