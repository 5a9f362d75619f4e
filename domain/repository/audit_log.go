package repository

import (
	"context"
	"time"

	"github.com/lingualink/api/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]*model.AuditLog, error)
	GetByUserID(ctx context.Context, userID string, limit int) ([]*model.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
