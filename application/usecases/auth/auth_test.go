package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingualink/api/application/usecases/audit"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/security"
)

type fakeUserRepository struct {
	mu     sync.Mutex
	users  map[string]*model.User
	emails map[string]string
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:  make(map[string]*model.User),
		emails: make(map[string]string),
	}
}

func (f *fakeUserRepository) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, redis.Nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	id, ok := f.emails[email]
	f.mu.Unlock()
	if !ok {
		return nil, redis.Nil
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUserRepository) GetAll(_ context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*model.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepository) SetEmailIndex(_ context.Context, email, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails[email] = userID
	return nil
}

func (f *fakeUserRepository) JoinedRooms(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		return user.JoinedRooms, nil
	}
	return nil, nil
}

func (f *fakeUserRepository) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	signedUps []string
}

func (f *fakePublisher) PublishUserSignedUp(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedUps = append(f.signedUps, userID)
	return nil
}

func (f *fakePublisher) signUpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signedUps)
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

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) URL(key string) string {
	return "https://cdn.test/" + key
}

func newTestUseCase() (AuthUseCase, *fakeUserRepository, *fakePublisher) {
	users := newFakeUserRepository()
	publisher := &fakePublisher{}
	log := &logger.Logger{Log: zap.NewNop()}
	auditor := audit.NewRecorder(&fakeAuditRepository{}, log)
	tokens := security.NewTokenIssuer("test-secret", time.Hour)

	uc := NewAuthUseCase(users, tokens, newFakeStorage(), publisher, auditor, log)
	return uc, users, publisher
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the user and issue a session token", func(t *testing.T) {
		req := require.New(t)
		uc, users, publisher := newTestUseCase()

		user, token, err := uc.SignUp(ctx, SignUpInput{
			Email:    "  Alice@Example.COM ",
			Password: "hunter22",
			Username: "alice",
		})

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("alice@example.com", user.Email)
		req.Equal("alice", user.Username)
		req.NotEqual("hunter22", user.PasswordHash)

		stored, err := users.GetByEmail(ctx, "alice@example.com")
		req.NoError(err)
		req.Equal(user.ID, stored.ID)

		req.Eventually(func() bool { return publisher.signUpCount() == 1 },
			time.Second, 10*time.Millisecond)
	})

	t.Run("should reject a duplicate email", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, _, err := uc.SignUp(ctx, SignUpInput{Email: "bob@example.com", Password: "pw123456", Username: "bob"})
		req.NoError(err)

		_, _, err = uc.SignUp(ctx, SignUpInput{Email: "BOB@example.com", Password: "other-pw", Username: "bobby"})
		req.ErrorIs(err, ErrEmailTaken)
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, _, err := uc.SignUp(ctx, SignUpInput{Password: "pw123456", Username: "x"})
		req.Error(err)

		_, _, err = uc.SignUp(ctx, SignUpInput{Email: "a@b.com", Username: "x"})
		req.Error(err)

		_, _, err = uc.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "pw123456", Username: "   "})
		req.Error(err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	signUp := func(t *testing.T, uc AuthUseCase) *model.User {
		t.Helper()
		user, _, err := uc.SignUp(ctx, SignUpInput{Email: "carol@example.com", Password: "pw123456", Username: "carol"})
		require.NoError(t, err)
		return user
	}

	t.Run("should authenticate with the right credentials", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		created := signUp(t, uc)

		user, token, err := uc.Login(ctx, "Carol@Example.com", "pw123456")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal(created.ID, user.ID)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()
		signUp(t, uc)

		_, _, err := uc.Login(ctx, "carol@example.com", "wrong-pw")
		req.ErrorIs(err, ErrInvalidCredentials)
	})

	t.Run("should not reveal whether the email exists", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, _, err := uc.Login(ctx, "nobody@example.com", "pw123456")
		req.ErrorIs(err, ErrInvalidCredentials)
	})

	t.Run("should reject empty credentials", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, _, err := uc.Login(ctx, "", "")
		req.ErrorIs(err, ErrInvalidCredentials)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the stored user", func(t *testing.T) {
		req := require.New(t)
		uc, users, _ := newTestUseCase()
		req.NoError(users.Create(ctx, &model.User{ID: "u1", Username: "dora"}))

		user, err := uc.GetUser(ctx, "u1")
		req.NoError(err)
		req.Equal("dora", user.Username)
	})

	t.Run("should fail for an unknown id", func(t *testing.T) {
		req := require.New(t)
		uc, _, _ := newTestUseCase()

		_, err := uc.GetUser(ctx, "missing")
		req.Error(err)
	})
}
