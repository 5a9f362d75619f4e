package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lingualink/api/application/usecases/audit"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/events"
	"github.com/lingualink/api/infrastructure/logger"
)

const (
	maxMessageLength = 2000
	defaultLimit     = 50
	maxLimit         = 200
)

var (
	ErrEmptyMessage   = fmt.Errorf("message text cannot be empty")
	ErrMessageTooLong = fmt.Errorf("message text cannot exceed %d characters", maxMessageLength)
	ErrNotMember      = fmt.Errorf("user is not a member of this room")
	ErrRoomNotFound   = fmt.Errorf("room not found")
)

type eventPublisher interface {
	PublishMessageSent(ctx context.Context, roomID, userID, messageID, text string, createdAt time.Time) error
}

type MessageUseCase interface {
	// Send validates and appends one message, then fans it out.
	Send(ctx context.Context, roomID, userID, text string) (*model.Message, error)
	History(ctx context.Context, roomID, userID string, limit int64) ([]*model.Message, error)
	Count(ctx context.Context, roomID string) (int64, error)
}

type messageUseCase struct {
	repository     repository.MessageRepository
	roomRepository repository.RoomRepository
	eventPublisher eventPublisher
	auditor        *audit.Recorder
	logger         *logger.Logger
}

func NewMessageUseCase(
	repository repository.MessageRepository,
	roomRepository repository.RoomRepository,
	eventPublisher eventPublisher,
	auditor *audit.Recorder,
	logger *logger.Logger,
) MessageUseCase {
	return &messageUseCase{
		repository:     repository,
		roomRepository: roomRepository,
		eventPublisher: eventPublisher,
		auditor:        auditor,
		logger:         logger,
	}
}

func (uc *messageUseCase) Send(ctx context.Context, roomID, userID, text string) (*model.Message, error) {
	if roomID == "" || userID == "" {
		return nil, fmt.Errorf("room ID and user ID cannot be empty")
	}

	// Whitespace-only text appends nothing.
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	room, err := uc.roomRepository.GetByID(ctx, roomID)
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("failed to get room for send", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if !room.IsMember(userID) {
		uc.logger.Warn("send from non-member", zap.String("roomID", roomID), zap.String("userID", userID))
		uc.auditor.Record(string(events.EventMessageSent), userID, roomID, nil, ErrNotMember)
		return nil, ErrNotMember
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := uc.repository.Append(ctx, message); err != nil {
		uc.logger.Error("failed to append message", zap.Error(err), zap.String("roomID", roomID))
		uc.auditor.Record(string(events.EventMessageSent), userID, roomID, nil, err)
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishMessageSent(context.Background(), roomID, userID, message.ID, message.Text, message.CreatedAt); err != nil {
			uc.logger.Warn("failed to publish message sent event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventMessageSent), userID, roomID, map[string]any{"message_id": message.ID}, nil)
	return message, nil
}

func (uc *messageUseCase) History(ctx context.Context, roomID, userID string, limit int64) ([]*model.Message, error) {
	if roomID == "" || userID == "" {
		return nil, fmt.Errorf("room ID and user ID cannot be empty")
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	room, err := uc.roomRepository.GetByID(ctx, roomID)
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("failed to get room for history", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if !room.IsMember(userID) {
		return nil, ErrNotMember
	}

	messages, err := uc.repository.GetByRoom(ctx, roomID, limit)
	if err != nil {
		uc.logger.Error("failed to load history", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return messages, nil
}

func (uc *messageUseCase) Count(ctx context.Context, roomID string) (int64, error) {
	if roomID == "" {
		return 0, fmt.Errorf("room ID cannot be empty")
	}

	count, err := uc.repository.Count(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to count messages", zap.Error(err), zap.String("roomID", roomID))
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}
