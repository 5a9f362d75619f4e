package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormZapLogger routes GORM's logs through zap so SQL ends up in the same
// stream as everything else.
type GormZapLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
}

func NewGormLogger(log *zap.Logger) *GormZapLogger {
	return &GormZapLogger{
		log:           log,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (l *GormZapLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *GormZapLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log.Sugar().Infof(msg, args...)
}

func (l *GormZapLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log.Sugar().Warnf(msg, args...)
}

func (l *GormZapLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log.Sugar().Errorf(msg, args...)
}

func (l *GormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil:
		l.log.Error("query failed",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	case elapsed > l.slowThreshold:
		l.log.Warn("slow query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
}
