package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/persistence/database"
)

type PostgresAuditLogRepository struct {
	database *gorm.DB
	logger   *logger.GormZapLogger
}

func NewAuditLogRepository(zapLogger *zap.Logger) repository.AuditLogRepository {
	return &PostgresAuditLogRepository{
		database: database.GetDb(),
		logger:   logger.NewGormLogger(zapLogger),
	}
}

func (r *PostgresAuditLogRepository) Create(ctx context.Context, a *model.AuditLog) error {
	// Event ids are unique across publishers; replays are silently dropped.
	result := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(a)

	if result.Error != nil {
		r.logger.Error(ctx, result.Error.Error())
		return result.Error
	}

	return nil
}

func (r *PostgresAuditLogRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error) {
	var logs []*model.AuditLog

	result := r.database.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)

	if result.Error != nil {
		r.logger.Error(ctx, result.Error.Error())
		return nil, result.Error
	}

	return logs, nil
}

func (r *PostgresAuditLogRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.AuditLog, error) {
	var logs []*model.AuditLog

	result := r.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)

	if result.Error != nil {
		r.logger.Error(ctx, result.Error.Error())
		return nil, result.Error
	}

	return logs, nil
}

func (r *PostgresAuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.database.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.AuditLog{})

	if result.Error != nil {
		r.logger.Error(ctx, result.Error.Error())
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
