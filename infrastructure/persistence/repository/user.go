package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/cache"
)

const allUsersKey = "users"

// The password hash lives under its own key. The user document is safe to
// hand to any caller; the hash is only loaded on the login path.
func credentialsKey(userID string) string {
	return fmt.Sprintf("user:%s:credentials", userID)
}

type userRepository struct {
	cache  *cache.DistributedCache
	tracer trace.Tracer
}

func NewUserRepository(cache *cache.DistributedCache, tracer trace.Tracer) repository.UserRepository {
	return &userRepository{
		cache:  cache,
		tracer: tracer,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.String("user.username", user.Username),
	)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	key := fmt.Sprintf("user:%s", user.ID)

	if err := r.cache.Set(ctx, key, user, 0); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create user")
		return err
	}

	if user.PasswordHash != "" {
		if err := r.cache.Set(ctx, credentialsKey(user.ID), user.PasswordHash, 0); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to store credentials")
			return err
		}
	}

	if err := r.cache.SAdd(ctx, allUsersKey, user.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to register user in directory")
		return err
	}

	span.SetStatus(codes.Ok, "user created successfully")
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id))

	key := fmt.Sprintf("user:%s", id)
	var user model.User

	found, err := r.cache.Get(ctx, key, &user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get user from cache")
		return nil, err
	}

	if !found {
		span.SetAttributes(attribute.Bool("user.found", false))
		span.SetStatus(codes.Error, "user not found")
		return nil, redis.Nil
	}

	// The joined-room set is the source of truth; the stored document's
	// copy is refreshed on every read.
	rooms, err := r.cache.SMembers(ctx, fmt.Sprintf("user:%s:rooms", id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get joined rooms")
		return nil, err
	}
	user.JoinedRooms = rooms

	span.SetAttributes(
		attribute.Bool("user.found", true),
		attribute.String("user.username", user.Username),
	)
	span.SetStatus(codes.Ok, "user retrieved successfully")
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetByEmail")
	defer span.End()

	indexKey := fmt.Sprintf("user:email:%s", email)
	var userID string

	found, err := r.cache.Get(ctx, indexKey, &userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get email index from cache")
		return nil, err
	}

	if !found {
		span.SetAttributes(attribute.Bool("email.index.found", false))
		span.SetStatus(codes.Error, "email index not found")
		return nil, redis.Nil
	}

	span.SetAttributes(
		attribute.Bool("email.index.found", true),
		attribute.String("user.id", userID),
	)

	// GetByID will create its own span
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get user by ID after email lookup")
		return nil, err
	}

	// Email lookup is the login path, so the hash comes along.
	var hash string
	if found, err := r.cache.Get(ctx, credentialsKey(userID), &hash); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load credentials")
		return nil, err
	} else if found {
		user.PasswordHash = hash
	}

	span.SetStatus(codes.Ok, "user retrieved by email successfully")
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetAll")
	defer span.End()

	ids, err := r.cache.SMembers(ctx, allUsersKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list user directory")
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			// A dangling directory entry should not break the listing.
			if err == redis.Nil {
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load user from directory")
			return nil, err
		}
		users = append(users, user)
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	span.SetStatus(codes.Ok, "users listed successfully")
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.String("user.username", user.Username),
	)

	key := fmt.Sprintf("user:%s", user.ID)

	if err := r.cache.Set(ctx, key, user, 0); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update user")
		return err
	}

	span.SetStatus(codes.Ok, "user updated successfully")
	return nil
}

func (r *userRepository) SetEmailIndex(ctx context.Context, email string, userID string) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.SetEmailIndex")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	key := fmt.Sprintf("user:email:%s", email)

	if err := r.cache.Set(ctx, key, userID, 0); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set email index")
		return err
	}

	span.SetStatus(codes.Ok, "email index set successfully")
	return nil
}

func (r *userRepository) JoinedRooms(ctx context.Context, userID string) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.JoinedRooms")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	key := fmt.Sprintf("user:%s:rooms", userID)

	rooms, err := r.cache.SMembers(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get joined rooms")
		return nil, err
	}

	span.SetAttributes(attribute.Int("rooms.count", len(rooms)))
	span.SetStatus(codes.Ok, "joined rooms retrieved successfully")
	return rooms, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id))

	key := fmt.Sprintf("user:%s", id)

	if err := r.cache.Delete(ctx, key); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete user")
		return err
	}

	if err := r.cache.Delete(ctx, credentialsKey(id)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete credentials")
		return err
	}

	if err := r.cache.SRem(ctx, allUsersKey, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove user from directory")
		return err
	}

	span.SetStatus(codes.Ok, "user deleted successfully")
	return nil
}
