package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/logger"
)

// Recorder writes audit rows off the request path. A failed write is
// logged and dropped; auditing never fails the operation it describes.
type Recorder struct {
	repository repository.AuditLogRepository
	logger     *logger.Logger
}

func NewRecorder(repository repository.AuditLogRepository, logger *logger.Logger) *Recorder {
	return &Recorder{
		repository: repository,
		logger:     logger,
	}
}

func (r *Recorder) Record(eventType, userID, roomID string, payload any, opErr error) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Warn("failed to marshal audit payload",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		data = []byte("{}")
	}

	entry := &model.AuditLog{
		CreatedAt: time.Now(),
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Payload:   data,
		Success:   opErr == nil,
	}
	if roomID != "" {
		entry.RoomID = sql.NullString{String: roomID, Valid: true}
	}
	if opErr != nil {
		entry.ErrorMessage = sql.NullString{String: opErr.Error(), Valid: true}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.repository.Create(ctx, entry); err != nil {
			r.logger.Warn("failed to write audit log",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		}
	}()
}
