package repository

import (
	"context"

	"github.com/lingualink/api/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetEmailIndex(ctx context.Context, email, userID string) error
	JoinedRooms(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
