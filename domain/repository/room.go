package repository

import (
	"context"

	"github.com/lingualink/api/domain/model"
)

type RoomRepository interface {
	// Create persists the room and links the owner's joined-room list in
	// the same transaction.
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	// Delete removes the room, its member set, its message log, and the
	// room id from every member's joined-room list. It returns the member
	// ids that were unlinked.
	Delete(ctx context.Context, id string) ([]string, error)
	// AddMember and RemoveMember update the room's member set and the
	// user's joined-room set together.
	AddMember(ctx context.Context, roomID, userID string) error
	RemoveMember(ctx context.Context, roomID, userID string) error
	GetMembers(ctx context.Context, roomID string) ([]string, error)
}
