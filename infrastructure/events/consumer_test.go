package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeInvalidator struct {
	keys []string
}

func (f *fakeInvalidator) Invalidate(key string) {
	f.keys = append(f.keys, key)
}

func TestInvalidatingSink(t *testing.T) {
	t.Run("should evict the user document when a profile update arrives", func(t *testing.T) {
		req := require.New(t)
		invalidator := &fakeInvalidator{}

		var forwarded []*Event
		sink := InvalidatingSink(invalidator, func(event *Event) {
			forwarded = append(forwarded, event)
		})

		sink(&Event{Type: EventUserUpdated, UserID: "user-1"})

		req.Equal([]string{"user:user-1"}, invalidator.keys)
		req.Len(forwarded, 1)
	})

	t.Run("should forward other events without touching the cache", func(t *testing.T) {
		req := require.New(t)
		invalidator := &fakeInvalidator{}

		var forwarded []*Event
		sink := InvalidatingSink(invalidator, func(event *Event) {
			forwarded = append(forwarded, event)
		})

		sink(&Event{Type: EventMessageSent, RoomID: "room-1", UserID: "user-1"})
		sink(&Event{Type: EventRoomsChanged, UserID: "user-1"})

		req.Empty(invalidator.keys)
		req.Len(forwarded, 2)
	})

	t.Run("should skip eviction when the event carries no user", func(t *testing.T) {
		req := require.New(t)
		invalidator := &fakeInvalidator{}

		var forwarded []*Event
		sink := InvalidatingSink(invalidator, func(event *Event) {
			forwarded = append(forwarded, event)
		})

		sink(&Event{Type: EventUserUpdated})

		req.Empty(invalidator.keys)
		req.Len(forwarded, 1)
	})
}
