package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lingualink/api/infrastructure/logger"
)

// Sink receives every event published on the shared channel.
type Sink func(*Event)

type localInvalidator interface {
	Invalidate(key string)
}

// InvalidatingSink drops the locally cached user document before handing
// the event to next. A profile change made on another instance is visible
// here on the very next read instead of after the local TTL runs out.
func InvalidatingSink(cache localInvalidator, next Sink) Sink {
	return func(event *Event) {
		if event.Type == EventUserUpdated && event.UserID != "" {
			cache.Invalidate("user:" + event.UserID)
		}

		next(event)
	}
}

// Consumer bridges the Redis pub/sub channel into an in-process sink
// (the WebSocket hub). One consumer runs per instance.
type Consumer struct {
	client *redis.Client
	logger *logger.Logger
	sink   Sink
}

func NewConsumer(client *redis.Client, logger *logger.Logger, sink Sink) *Consumer {
	return &Consumer{
		client: client,
		logger: logger,
		sink:   sink,
	}
}

// Run blocks until ctx is cancelled, delivering each decoded event to the
// sink. Malformed payloads are logged and skipped.
func (c *Consumer) Run(ctx context.Context) {
	sub := c.client.Subscribe(ctx, channel)
	defer func() {
		_ = sub.Close()
	}()

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				c.logger.Warn("dropping malformed event", zap.Error(err))
				continue
			}

			c.sink(&event)
		}
	}
}
