package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lingualink/api/application/usecases/audit"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/events"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/storage"
)

const maxUsernameLength = 64

type eventPublisher interface {
	PublishUserUpdated(ctx context.Context, userID, username, profileImageURL string) error
}

type UserUseCase interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	UpdateUsername(ctx context.Context, userID, username string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID string, data []byte, contentType string) (*model.User, error)
	JoinedRooms(ctx context.Context, userID string) ([]string, error)
}

type userUseCase struct {
	userRepository repository.UserRepository
	storage        storage.Driver
	eventPublisher eventPublisher
	auditor        *audit.Recorder
	logger         *logger.Logger
}

func NewUserUseCase(
	userRepository repository.UserRepository,
	storageDriver storage.Driver,
	eventPublisher eventPublisher,
	auditor *audit.Recorder,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepository: userRepository,
		storage:        storageDriver,
		eventPublisher: eventPublisher,
		auditor:        auditor,
		logger:         logger,
	}
}

func (uc *userUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	user, err := uc.userRepository.GetByID(ctx, id)
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user not found")
		}
		uc.logger.Error("failed to get user", zap.Error(err), zap.String("userID", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (uc *userUseCase) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := uc.userRepository.GetAll(ctx)
	if err != nil {
		uc.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (uc *userUseCase) UpdateUsername(ctx context.Context, userID, username string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if len(username) > maxUsernameLength {
		return nil, fmt.Errorf("username cannot exceed %d characters", maxUsernameLength)
	}

	user, err := uc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = username

	if err := uc.userRepository.Update(ctx, user); err != nil {
		uc.logger.Error("failed to update username", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uc.publishUpdated(user)
	uc.auditor.Record(string(events.EventUserUpdated), userID, "", map[string]any{"username": username}, nil)
	uc.logger.Info("username updated", zap.String("userID", userID), zap.String("username", username))
	return user, nil
}

func (uc *userUseCase) UpdateAvatar(ctx context.Context, userID string, data []byte, contentType string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("avatar cannot be empty")
	}

	user, err := uc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalized, outType, err := storage.NormalizeAvatar(data, contentType)
	if err != nil {
		uc.auditor.Record(string(events.EventUserUpdated), userID, "", map[string]any{"avatar": true}, err)
		return nil, err
	}

	key := storage.AvatarKey(userID)
	if err := uc.storage.Put(ctx, key, normalized, outType); err != nil {
		uc.logger.Error("failed to store avatar", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	user.ProfileImageURL = uc.storage.URL(key)

	if err := uc.userRepository.Update(ctx, user); err != nil {
		uc.logger.Error("failed to update avatar url", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uc.publishUpdated(user)
	uc.auditor.Record(string(events.EventUserUpdated), userID, "", map[string]any{"avatar": true}, nil)
	uc.logger.Info("avatar updated", zap.String("userID", userID))
	return user, nil
}

func (uc *userUseCase) JoinedRooms(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	rooms, err := uc.userRepository.JoinedRooms(ctx, userID)
	if err != nil {
		uc.logger.Error("failed to get joined rooms", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to get joined rooms: %w", err)
	}

	return rooms, nil
}

func (uc *userUseCase) publishUpdated(user *model.User) {
	go func() {
		if err := uc.eventPublisher.PublishUserUpdated(context.Background(), user.ID, user.Username, user.ProfileImageURL); err != nil {
			uc.logger.Warn("failed to publish user updated event", zap.Error(err))
		}
	}()
}
