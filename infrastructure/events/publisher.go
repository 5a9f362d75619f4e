package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// channel is the Redis pub/sub channel all instances share. Publishing
// through Redis means every instance's hub sees every event, so WebSocket
// subscribers get pushes no matter which instance handled the write.
const channel = "lingualink:events"

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *Publisher) PublishRoomsChanged(ctx context.Context, userID string) error {
	return p.Publish(ctx, &Event{Type: EventRoomsChanged, UserID: userID})
}

func (p *Publisher) PublishRoomDeleted(ctx context.Context, roomID, userID string, memberIDs []string) error {
	return p.Publish(ctx, &Event{
		Type:   EventRoomDeleted,
		RoomID: roomID,
		UserID: userID,
		Data: map[string]any{
			"member_ids": memberIDs,
		},
	})
}

func (p *Publisher) PublishMemberJoined(ctx context.Context, roomID, userID string) error {
	return p.Publish(ctx, &Event{Type: EventMemberJoined, RoomID: roomID, UserID: userID})
}

func (p *Publisher) PublishMemberLeft(ctx context.Context, roomID, userID string) error {
	return p.Publish(ctx, &Event{Type: EventMemberLeft, RoomID: roomID, UserID: userID})
}

func (p *Publisher) PublishMemberRemoved(ctx context.Context, roomID, targetID, removedBy string) error {
	return p.Publish(ctx, &Event{
		Type:   EventMemberRemoved,
		RoomID: roomID,
		UserID: targetID,
		Data: map[string]any{
			"removed_by": removedBy,
		},
	})
}

func (p *Publisher) PublishMessageSent(ctx context.Context, roomID, userID, messageID, text string, createdAt time.Time) error {
	return p.Publish(ctx, &Event{
		Type:   EventMessageSent,
		RoomID: roomID,
		UserID: userID,
		Data: map[string]any{
			"message_id": messageID,
			"text":       text,
			"created_at": createdAt.Format(time.RFC3339Nano),
		},
	})
}

func (p *Publisher) PublishUserUpdated(ctx context.Context, userID, username, profileImageURL string) error {
	return p.Publish(ctx, &Event{
		Type:   EventUserUpdated,
		UserID: userID,
		Data: map[string]any{
			"username":          username,
			"profile_image_url": profileImageURL,
		},
	})
}

func (p *Publisher) PublishUserSignedUp(ctx context.Context, userID, username string) error {
	return p.Publish(ctx, &Event{
		Type:   EventUserSignedUp,
		UserID: userID,
		Data: map[string]any{
			"username": username,
		},
	})
}
