package room

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

// fakeRoomRepository mirrors the redis layout: a room document plus a
// member set per room and a joined-room set per user, updated together.
type fakeRoomRepository struct {
	mu        sync.Mutex
	rooms     map[string]*model.Room
	members   map[string]map[string]struct{}
	userRooms map[string]map[string]struct{}
}

func newFakeRoomRepository() *fakeRoomRepository {
	return &fakeRoomRepository{
		rooms:     make(map[string]*model.Room),
		members:   make(map[string]map[string]struct{}),
		userRooms: make(map[string]map[string]struct{}),
	}
}

func (f *fakeRoomRepository) Create(_ context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	room.Members = []string{room.OwnerID}
	copied := *room
	f.rooms[room.ID] = &copied
	f.members[room.ID] = map[string]struct{}{room.OwnerID: {}}
	f.linkLocked(room.OwnerID, room.ID)
	return nil
}

func (f *fakeRoomRepository) GetByID(_ context.Context, id string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[id]
	if !ok {
		return nil, redis.Nil
	}

	copied := *room
	copied.Members = make([]string, 0, len(f.members[id]))
	for userID := range f.members[id] {
		copied.Members = append(copied.Members, userID)
	}
	return &copied, nil
}

func (f *fakeRoomRepository) GetAll(_ context.Context) ([]*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rooms := make([]*model.Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}
	return rooms, nil
}

func (f *fakeRoomRepository) Delete(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rooms[id]; !ok {
		return nil, redis.Nil
	}

	memberIDs := make([]string, 0, len(f.members[id]))
	for userID := range f.members[id] {
		memberIDs = append(memberIDs, userID)
		delete(f.userRooms[userID], id)
	}

	delete(f.rooms, id)
	delete(f.members, id)
	return memberIDs, nil
}

func (f *fakeRoomRepository) AddMember(_ context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.members[roomID][userID] = struct{}{}
	f.linkLocked(userID, roomID)
	return nil
}

func (f *fakeRoomRepository) RemoveMember(_ context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.members[roomID], userID)
	delete(f.userRooms[userID], roomID)
	return nil
}

func (f *fakeRoomRepository) GetMembers(_ context.Context, roomID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	memberIDs := make([]string, 0, len(f.members[roomID]))
	for userID := range f.members[roomID] {
		memberIDs = append(memberIDs, userID)
	}
	return memberIDs, nil
}

func (f *fakeRoomRepository) linkLocked(userID, roomID string) {
	if f.userRooms[userID] == nil {
		f.userRooms[userID] = make(map[string]struct{})
	}
	f.userRooms[userID][roomID] = struct{}{}
}

func (f *fakeRoomRepository) userJoined(userID, roomID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.userRooms[userID][roomID]
	return ok
}

type publishedEvent struct {
	kind   string
	roomID string
	userID string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) record(kind, roomID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{kind: kind, roomID: roomID, userID: userID})
}

func (f *fakePublisher) PublishRoomsChanged(_ context.Context, userID string) error {
	f.record("rooms_changed", "", userID)
	return nil
}

func (f *fakePublisher) PublishRoomDeleted(_ context.Context, roomID, userID string, _ []string) error {
	f.record("room_deleted", roomID, userID)
	return nil
}

func (f *fakePublisher) PublishMemberJoined(_ context.Context, roomID, userID string) error {
	f.record("member_joined", roomID, userID)
	return nil
}

func (f *fakePublisher) PublishMemberLeft(_ context.Context, roomID, userID string) error {
	f.record("member_left", roomID, userID)
	return nil
}

func (f *fakePublisher) PublishMemberRemoved(_ context.Context, roomID, targetID, _ string) error {
	f.record("member_removed", roomID, targetID)
	return nil
}

func (f *fakePublisher) has(kind string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.kind == kind {
			return true
		}
	}
	return false
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

func newTestUseCase() (RoomUseCase, *fakeRoomRepository, *fakePublisher) {
	rooms := newFakeRoomRepository()
	publisher := &fakePublisher{}
	log := &logger.Logger{Log: zap.NewNop()}
	auditor := audit.NewRecorder(&fakeAuditRepository{}, log)

	uc := NewRoomUseCase(rooms, publisher, auditor, log)
	return uc, rooms, publisher
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 10*time.Millisecond)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a room with the owner as first member", func(t *testing.T) {
		req := require.New(t)
		uc, repo, publisher := newTestUseCase()

		room, err := uc.Create(ctx, "  General  ", "owner-1")

		req.NoError(err)
		req.Equal("General", room.Name)
		req.Equal("owner-1", room.OwnerID)
		req.Equal([]string{"owner-1"}, room.Members)
		req.True(repo.userJoined("owner-1", room.ID))

		waitFor(t, func() bool { return publisher.has("rooms_changed") })
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, err := uc.Create(ctx, "   ", "owner-1")
		req.ErrorIs(err, ErrEmptyRoomName)
	})

	t.Run("should reject an oversized name", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, err := uc.Create(ctx, strings.Repeat("x", maxRoomNameLength+1), "owner-1")
		req.Error(err)
	})
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("should link the room on both sides", func(t *testing.T) {
		req := require.New(t)
		uc, repo, publisher := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		req.NoError(uc.Join(ctx, room.ID, "alice"))

		refreshed, err := uc.GetByID(ctx, room.ID)
		req.NoError(err)
		req.True(refreshed.IsMember("alice"))
		req.True(repo.userJoined("alice", room.ID))

		waitFor(t, func() bool { return publisher.has("member_joined") })
	})

	t.Run("should treat a repeated join as a no-op", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		req.NoError(uc.Join(ctx, room.ID, "alice"))
		req.NoError(uc.Join(ctx, room.ID, "alice"))

		members, err := uc.Members(ctx, room.ID)
		req.NoError(err)
		req.Len(members, 2)
	})

	t.Run("should fail for an unknown room", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		err := uc.Join(ctx, "missing", "alice")
		req.ErrorIs(err, ErrRoomNotFound)
	})
}

func TestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("should unlink the room on both sides", func(t *testing.T) {
		req := require.New(t)
		uc, repo, publisher := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)
		req.NoError(uc.Join(ctx, room.ID, "alice"))

		req.NoError(uc.Leave(ctx, room.ID, "alice"))

		refreshed, err := uc.GetByID(ctx, room.ID)
		req.NoError(err)
		req.False(refreshed.IsMember("alice"))
		req.False(repo.userJoined("alice", room.ID))

		waitFor(t, func() bool { return publisher.has("member_left") })
	})

	t.Run("should refuse the owner leaving their own room", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		err = uc.Leave(ctx, room.ID, "owner-1")
		req.ErrorIs(err, ErrOwnerLeave)
	})

	t.Run("should refuse a non-member leaving", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		err = uc.Leave(ctx, room.ID, "stranger")
		req.ErrorIs(err, ErrNotMember)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("should cascade over members and notify everyone", func(t *testing.T) {
		req := require.New(t)
		uc, repo, publisher := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)
		req.NoError(uc.Join(ctx, room.ID, "alice"))
		req.NoError(uc.Join(ctx, room.ID, "bob"))

		req.NoError(uc.Delete(ctx, room.ID, "owner-1"))

		_, err = uc.GetByID(ctx, room.ID)
		req.ErrorIs(err, ErrRoomNotFound)
		req.False(repo.userJoined("alice", room.ID))
		req.False(repo.userJoined("bob", room.ID))
		req.False(repo.userJoined("owner-1", room.ID))

		waitFor(t, func() bool { return publisher.has("room_deleted") })
	})

	t.Run("should refuse deletion by a non-owner", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)
		req.NoError(uc.Join(ctx, room.ID, "alice"))

		err = uc.Delete(ctx, room.ID, "alice")
		req.ErrorIs(err, ErrNotOwner)
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("should let the owner remove a member", func(t *testing.T) {
		req := require.New(t)
		uc, repo, publisher := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)
		req.NoError(uc.Join(ctx, room.ID, "alice"))

		req.NoError(uc.RemoveMember(ctx, room.ID, "alice", "owner-1"))

		refreshed, err := uc.GetByID(ctx, room.ID)
		req.NoError(err)
		req.False(refreshed.IsMember("alice"))
		req.False(repo.userJoined("alice", room.ID))

		waitFor(t, func() bool { return publisher.has("member_removed") })
	})

	t.Run("should refuse removal by a non-owner", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)
		req.NoError(uc.Join(ctx, room.ID, "alice"))
		req.NoError(uc.Join(ctx, room.ID, "bob"))

		err = uc.RemoveMember(ctx, room.ID, "bob", "alice")
		req.ErrorIs(err, ErrNotOwner)
	})

	t.Run("should refuse removing the owner", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		err = uc.RemoveMember(ctx, room.ID, "owner-1", "owner-1")
		req.ErrorIs(err, ErrOwnerRemoved)
	})

	t.Run("should refuse removing a non-member", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		room, err := uc.Create(ctx, "General", "owner-1")
		req.NoError(err)

		err = uc.RemoveMember(ctx, room.ID, "stranger", "owner-1")
		req.ErrorIs(err, ErrNotMember)
	})
}
