package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lingualink/api/application/usecases/audit"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/events"
	"github.com/lingualink/api/infrastructure/logger"
	"github.com/lingualink/api/infrastructure/security"
	"github.com/lingualink/api/infrastructure/storage"
)

var (
	ErrEmailTaken         = fmt.Errorf("an account with this email already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
)

type SignUpInput struct {
	Email    string
	Password string
	Username string

	// Optional avatar uploaded during signup.
	Avatar            []byte
	AvatarContentType string
}

type eventPublisher interface {
	PublishUserSignedUp(ctx context.Context, userID, username string) error
}

type AuthUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

type authUseCase struct {
	userRepository repository.UserRepository
	tokens         *security.TokenIssuer
	storage        storage.Driver
	eventPublisher eventPublisher
	auditor        *audit.Recorder
	logger         *logger.Logger
}

func NewAuthUseCase(
	userRepository repository.UserRepository,
	tokens *security.TokenIssuer,
	storageDriver storage.Driver,
	eventPublisher eventPublisher,
	auditor *audit.Recorder,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepository: userRepository,
		tokens:         tokens,
		storage:        storageDriver,
		eventPublisher: eventPublisher,
		auditor:        auditor,
		logger:         logger,
	}
}

func (uc *authUseCase) SignUp(ctx context.Context, input SignUpInput) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if email == "" {
		return nil, "", fmt.Errorf("email cannot be empty")
	}
	if input.Password == "" {
		return nil, "", fmt.Errorf("password cannot be empty")
	}
	if username == "" {
		return nil, "", fmt.Errorf("username cannot be empty")
	}

	if _, err := uc.userRepository.GetByEmail(ctx, email); err == nil {
		uc.logger.Warn("signup with taken email", zap.String("email", email))
		uc.auditor.Record(string(events.EventUserSignedUp), "", "", map[string]any{"email": email}, ErrEmailTaken)
		return nil, "", ErrEmailTaken
	} else if err != redis.Nil {
		uc.logger.Error("failed to check email index", zap.Error(err))
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		uc.logger.Error("failed to hash password", zap.Error(err))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		JoinedRooms:  []string{},
	}

	if len(input.Avatar) > 0 {
		url, err := uc.uploadAvatar(ctx, user.ID, input.Avatar, input.AvatarContentType)
		if err != nil {
			uc.logger.Error("failed to upload signup avatar", zap.Error(err), zap.String("userID", user.ID))
			return nil, "", err
		}
		user.ProfileImageURL = url
	}

	if err := uc.userRepository.Create(ctx, user); err != nil {
		uc.logger.Error("failed to create user", zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.userRepository.SetEmailIndex(ctx, email, user.ID); err != nil {
		uc.logger.Error("failed to set email index", zap.Error(err), zap.String("userID", user.ID))
		_ = uc.userRepository.Delete(ctx, user.ID)
		return nil, "", fmt.Errorf("failed to index user: %w", err)
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		uc.logger.Error("failed to issue session token", zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishUserSignedUp(context.Background(), user.ID, user.Username); err != nil {
			uc.logger.Warn("failed to publish user signed up event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventUserSignedUp), user.ID, "", map[string]any{"username": user.Username}, nil)
	uc.logger.Info("user signed up", zap.String("userID", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := uc.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if err == redis.Nil {
			uc.logger.Warn("login with unknown email", zap.String("email", email))
			return nil, "", ErrInvalidCredentials
		}
		uc.logger.Error("failed to look up user for login", zap.Error(err))
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := security.ComparePassword(password, user.PasswordHash)
	if err != nil {
		uc.logger.Error("failed to compare password", zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		uc.logger.Warn("login with wrong password", zap.String("userID", user.ID))
		uc.auditor.Record("user.login", user.ID, "", nil, ErrInvalidCredentials)
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		uc.logger.Error("failed to issue session token", zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	uc.auditor.Record("user.login", user.ID, "", nil, nil)
	uc.logger.Info("user logged in", zap.String("userID", user.ID))
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	user, err := uc.userRepository.GetByID(ctx, userID)
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user not found")
		}
		uc.logger.Error("failed to get user", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (uc *authUseCase) uploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	normalized, outType, err := storage.NormalizeAvatar(data, contentType)
	if err != nil {
		return "", err
	}

	key := storage.AvatarKey(userID)
	if err := uc.storage.Put(ctx, key, normalized, outType); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	return uc.storage.URL(key), nil
}
