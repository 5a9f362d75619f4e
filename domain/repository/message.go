package repository

import (
	"context"

	"github.com/lingualink/api/domain/model"
)

type MessageRepository interface {
	// Append adds a message to the room's log. The append is atomic, so
	// concurrent senders never overwrite each other.
	Append(ctx context.Context, message *model.Message) error
	GetByRoom(ctx context.Context, roomID string, limit int64) ([]*model.Message, error)
	Count(ctx context.Context, roomID string) (int64, error)
}
