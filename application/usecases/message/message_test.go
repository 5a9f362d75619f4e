package message

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualink/api/application/usecases/audit"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/logger"
)

type fakeMessageRepository struct {
	mu       sync.Mutex
	messages map[string][]*model.Message
}

func newFakeMessageRepository() *fakeMessageRepository {
	return &fakeMessageRepository{messages: make(map[string][]*model.Message)}
}

func (f *fakeMessageRepository) Append(_ context.Context, message *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *message
	f.messages[message.RoomID] = append(f.messages[message.RoomID], &copied)
	return nil
}

func (f *fakeMessageRepository) GetByRoom(_ context.Context, roomID string, limit int64) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log := f.messages[roomID]
	if int64(len(log)) > limit {
		log = log[int64(len(log))-limit:]
	}
	out := make([]*model.Message, len(log))
	copy(out, log)
	return out, nil
}

func (f *fakeMessageRepository) Count(_ context.Context, roomID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.messages[roomID])), nil
}

type fakeRoomRepository struct {
	rooms map[string]*model.Room
}

func (f *fakeRoomRepository) Create(_ context.Context, room *model.Room) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepository) GetByID(_ context.Context, id string) (*model.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, redis.Nil
	}
	return room, nil
}

func (f *fakeRoomRepository) GetAll(context.Context) ([]*model.Room, error) { return nil, nil }

func (f *fakeRoomRepository) Delete(context.Context, string) ([]string, error) { return nil, nil }

func (f *fakeRoomRepository) AddMember(context.Context, string, string) error { return nil }

func (f *fakeRoomRepository) RemoveMember(context.Context, string, string) error { return nil }

func (f *fakeRoomRepository) GetMembers(context.Context, string) ([]string, error) {
	return nil, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakePublisher) PublishMessageSent(_ context.Context, _, _, messageID, _ string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, messageID)
	return nil
}

func (f *fakePublisher) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeAuditRepository struct {
	mu      sync.Mutex
	entries []*model.AuditLog
}

func (f *fakeAuditRepository) Create(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepository) GetByRoomID(context.Context, string, int) ([]*model.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepository) GetByUserID(context.Context, string, int) ([]*model.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepository) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func newTestUseCase(rooms ...*model.Room) (MessageUseCase, *fakeMessageRepository, *fakePublisher) {
	roomRepo := &fakeRoomRepository{rooms: make(map[string]*model.Room)}
	for _, room := range rooms {
		roomRepo.rooms[room.ID] = room
	}

	messages := newFakeMessageRepository()
	publisher := &fakePublisher{}
	log := &logger.Logger{Log: zap.NewNop()}
	auditor := audit.NewRecorder(&fakeAuditRepository{}, log)

	uc := NewMessageUseCase(messages, roomRepo, publisher, auditor, log)
	return uc, messages, publisher
}

func generalRoom() *model.Room {
	return &model.Room{
		ID:      "room-1",
		Name:    "General",
		OwnerID: "owner",
		Members: []string{"owner", "alice"},
	}
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("should append the message and fan it out", func(t *testing.T) {
		req := require.New(t)
		uc, messages, publisher := newTestUseCase(generalRoom())

		sent, err := uc.Send(ctx, "room-1", "alice", "hello world")

		req.NoError(err)
		req.NotEmpty(sent.ID)
		req.Equal("alice", sent.UserID)
		req.False(sent.CreatedAt.IsZero())

		count, err := messages.Count(ctx, "room-1")
		req.NoError(err)
		req.EqualValues(1, count)

		req.Eventually(func() bool { return publisher.sentCount() == 1 },
			time.Second, 10*time.Millisecond)
	})

	t.Run("should reject whitespace-only text", func(t *testing.T) {
		req := require.New(t)
		uc, messages, _ := newTestUseCase(generalRoom())

		_, err := uc.Send(ctx, "room-1", "alice", "   \n\t ")
		req.ErrorIs(err, ErrEmptyMessage)

		count, err := messages.Count(ctx, "room-1")
		req.NoError(err)
		req.Zero(count)
	})

	t.Run("should reject text over the length cap", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase(generalRoom())

		_, err := uc.Send(ctx, "room-1", "alice", strings.Repeat("a", maxMessageLength+1))
		req.ErrorIs(err, ErrMessageTooLong)
	})

	t.Run("should reject a sender who is not a member", func(t *testing.T) {
		req := require.New(t)
		uc, messages, _ := newTestUseCase(generalRoom())

		_, err := uc.Send(ctx, "room-1", "stranger", "let me in")
		req.ErrorIs(err, ErrNotMember)

		count, err := messages.Count(ctx, "room-1")
		req.NoError(err)
		req.Zero(count)
	})

	t.Run("should fail for an unknown room", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, err := uc.Send(ctx, "missing", "alice", "hello")
		req.ErrorIs(err, ErrRoomNotFound)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("should return messages in send order", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase(generalRoom())

		first, err := uc.Send(ctx, "room-1", "alice", "first")
		req.NoError(err)
		second, err := uc.Send(ctx, "room-1", "owner", "second")
		req.NoError(err)

		history, err := uc.History(ctx, "room-1", "alice", 0)
		req.NoError(err)
		req.Len(history, 2)
		req.Equal(first.ID, history[0].ID)
		req.Equal(second.ID, history[1].ID)
	})

	t.Run("should clamp the limit to the maximum", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase(generalRoom())

		for i := 0; i < 3; i++ {
			_, err := uc.Send(ctx, "room-1", "alice", "msg")
			req.NoError(err)
		}

		history, err := uc.History(ctx, "room-1", "alice", maxLimit*10)
		req.NoError(err)
		req.Len(history, 3)
	})

	t.Run("should refuse history to a non-member", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase(generalRoom())

		_, err := uc.History(ctx, "room-1", "stranger", 10)
		req.ErrorIs(err, ErrNotMember)
	})
}

func TestCount(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	uc, _, _ := newTestUseCase(generalRoom())

	count, err := uc.Count(ctx, "room-1")
	req.NoError(err)
	req.Zero(count)

	_, err = uc.Send(ctx, "room-1", "alice", "hello")
	req.NoError(err)

	count, err = uc.Count(ctx, "room-1")
	req.NoError(err)
	req.EqualValues(1, count)
}
