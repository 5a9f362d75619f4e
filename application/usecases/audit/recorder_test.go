package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/logger"
)

type fakeAuditRepository struct {
	mu        sync.Mutex
	entries   []*model.AuditLog
	createErr error
}

func (f *fakeAuditRepository) Create(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
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

func (f *fakeAuditRepository) first() *model.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return nil
	}
	return f.entries[0]
}

func TestRecorder(t *testing.T) {
	newRecorder := func(repo *fakeAuditRepository) *Recorder {
		return NewRecorder(repo, &logger.Logger{Log: zap.NewNop()})
	}

	t.Run("should write a success entry off the request path", func(t *testing.T) {
		req := require.New(t)
		repo := &fakeAuditRepository{}
		recorder := newRecorder(repo)

		recorder.Record("room.created", "u1", "r1", map[string]any{"name": "General"}, nil)

		req.Eventually(func() bool { return repo.first() != nil },
			time.Second, 10*time.Millisecond)

		entry := repo.first()
		req.Equal("room.created", entry.EventType)
		req.Equal("u1", entry.UserID)
		req.True(entry.RoomID.Valid)
		req.Equal("r1", entry.RoomID.String)
		req.True(entry.Success)
		req.False(entry.ErrorMessage.Valid)
		req.NotEmpty(entry.EventID)
	})

	t.Run("should capture the failure message", func(t *testing.T) {
		req := require.New(t)
		repo := &fakeAuditRepository{}
		recorder := newRecorder(repo)

		recorder.Record("message.sent", "u1", "r1", nil, errors.New("not a member"))

		req.Eventually(func() bool { return repo.first() != nil },
			time.Second, 10*time.Millisecond)

		entry := repo.first()
		req.False(entry.Success)
		req.True(entry.ErrorMessage.Valid)
		req.Equal("not a member", entry.ErrorMessage.String)
	})

	t.Run("should leave room id null for account-level events", func(t *testing.T) {
		req := require.New(t)
		repo := &fakeAuditRepository{}
		recorder := newRecorder(repo)

		recorder.Record("user.login", "u1", "", nil, nil)

		req.Eventually(func() bool { return repo.first() != nil },
			time.Second, 10*time.Millisecond)
		req.False(repo.first().RoomID.Valid)
	})

	t.Run("should swallow repository failures", func(t *testing.T) {
		repo := &fakeAuditRepository{createErr: errors.New("db down")}
		recorder := newRecorder(repo)

		recorder.Record("user.login", "u1", "", nil, nil)
		time.Sleep(50 * time.Millisecond)
	})
}
