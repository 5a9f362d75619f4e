package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
)

type messageRepository struct {
	client *redis.Client
}

func NewMessageRepository(client *redis.Client) repository.MessageRepository {
	return &messageRepository{
		client: client,
	}
}

func (r *messageRepository) Append(ctx context.Context, message *model.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// ZADD into a per-room sorted set keyed by timestamp. Each message is
	// its own member, so concurrent senders append independently and
	// nothing is ever read-modify-written.
	key := roomLogKey(message.RoomID)
	score := float64(message.CreatedAt.UnixNano())

	if err := r.client.ZAdd(ctx, key, redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

func (r *messageRepository) GetByRoom(ctx context.Context, roomID string, limit int64) ([]*model.Message, error) {
	key := roomLogKey(roomID)

	// Take the most recent page, then flip it back to chronological order.
	results, err := r.client.ZRevRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0, len(results))
	for _, data := range results {
		var msg model.Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			continue
		}
		messages = append(messages, &msg)
	}

	for i := len(messages)/2 - 1; i >= 0; i-- {
		opp := len(messages) - 1 - i
		messages[i], messages[opp] = messages[opp], messages[i]
	}

	return messages, nil
}

func (r *messageRepository) Count(ctx context.Context, roomID string) (int64, error) {
	return r.client.ZCard(ctx, roomLogKey(roomID)).Result()
}
