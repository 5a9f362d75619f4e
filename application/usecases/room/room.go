package room

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
)

const maxRoomNameLength = 128

var (
	ErrRoomNotFound  = fmt.Errorf("room not found")
	ErrNotOwner      = fmt.Errorf("only the room owner may do this")
	ErrNotMember     = fmt.Errorf("user is not a member of this room")
	ErrOwnerLeave    = fmt.Errorf("the owner cannot leave their own room, delete it instead")
	ErrOwnerRemoved  = fmt.Errorf("the owner cannot be removed from their own room")
	ErrEmptyRoomName = fmt.Errorf("room name cannot be empty")
)

type eventPublisher interface {
	PublishRoomsChanged(ctx context.Context, userID string) error
	PublishRoomDeleted(ctx context.Context, roomID, userID string, memberIDs []string) error
	PublishMemberJoined(ctx context.Context, roomID, userID string) error
	PublishMemberLeft(ctx context.Context, roomID, userID string) error
	PublishMemberRemoved(ctx context.Context, roomID, targetID, removedBy string) error
}

type RoomUseCase interface {
	Create(ctx context.Context, name, ownerID string) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	Join(ctx context.Context, roomID, userID string) error
	Leave(ctx context.Context, roomID, userID string) error
	Delete(ctx context.Context, roomID, userID string) error
	RemoveMember(ctx context.Context, roomID, targetID, requesterID string) error
	Members(ctx context.Context, roomID string) ([]string, error)
}

type roomUseCase struct {
	repository     repository.RoomRepository
	eventPublisher eventPublisher
	auditor        *audit.Recorder
	logger         *logger.Logger
}

func NewRoomUseCase(
	repository repository.RoomRepository,
	eventPublisher eventPublisher,
	auditor *audit.Recorder,
	logger *logger.Logger,
) RoomUseCase {
	return &roomUseCase{
		repository:     repository,
		eventPublisher: eventPublisher,
		auditor:        auditor,
		logger:         logger,
	}
}

func (uc *roomUseCase) Create(ctx context.Context, name, ownerID string) (*model.Room, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, ErrEmptyRoomName
	}
	if len(name) > maxRoomNameLength {
		return nil, fmt.Errorf("room name cannot exceed %d characters", maxRoomNameLength)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner ID cannot be empty")
	}

	room := &model.Room{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: ownerID,
	}

	if err := uc.repository.Create(ctx, room); err != nil {
		uc.logger.Error("failed to create room", zap.Error(err), zap.String("ownerID", ownerID))
		uc.auditor.Record("room.created", ownerID, "", map[string]any{"name": name}, err)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishRoomsChanged(context.Background(), ownerID); err != nil {
			uc.logger.Warn("failed to publish rooms changed event", zap.Error(err))
		}
	}()

	uc.auditor.Record("room.created", ownerID, room.ID, map[string]any{"name": name}, nil)
	uc.logger.Info("room created", zap.String("roomID", room.ID), zap.String("ownerID", ownerID))
	return room, nil
}

func (uc *roomUseCase) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}

	room, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("failed to get room", zap.Error(err), zap.String("roomID", id))
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (uc *roomUseCase) GetAll(ctx context.Context) ([]*model.Room, error) {
	rooms, err := uc.repository.GetAll(ctx)
	if err != nil {
		uc.logger.Error("failed to list rooms", zap.Error(err))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	return rooms, nil
}

func (uc *roomUseCase) Join(ctx context.Context, roomID, userID string) error {
	if roomID == "" || userID == "" {
		return fmt.Errorf("room ID and user ID cannot be empty")
	}

	room, err := uc.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	// Joining twice is a no-op, not an error.
	if room.IsMember(userID) {
		return nil
	}

	if err := uc.repository.AddMember(ctx, roomID, userID); err != nil {
		uc.logger.Error("failed to join room", zap.Error(err), zap.String("roomID", roomID), zap.String("userID", userID))
		uc.auditor.Record(string(events.EventMemberJoined), userID, roomID, nil, err)
		return fmt.Errorf("failed to join room: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishMemberJoined(context.Background(), roomID, userID); err != nil {
			uc.logger.Warn("failed to publish member joined event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventMemberJoined), userID, roomID, nil, nil)
	uc.logger.Info("user joined room", zap.String("roomID", roomID), zap.String("userID", userID))
	return nil
}

func (uc *roomUseCase) Leave(ctx context.Context, roomID, userID string) error {
	if roomID == "" || userID == "" {
		return fmt.Errorf("room ID and user ID cannot be empty")
	}

	room, err := uc.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if room.IsOwner(userID) {
		return ErrOwnerLeave
	}

	if !room.IsMember(userID) {
		return ErrNotMember
	}

	if err := uc.repository.RemoveMember(ctx, roomID, userID); err != nil {
		uc.logger.Error("failed to leave room", zap.Error(err), zap.String("roomID", roomID), zap.String("userID", userID))
		uc.auditor.Record(string(events.EventMemberLeft), userID, roomID, nil, err)
		return fmt.Errorf("failed to leave room: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishMemberLeft(context.Background(), roomID, userID); err != nil {
			uc.logger.Warn("failed to publish member left event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventMemberLeft), userID, roomID, nil, nil)
	uc.logger.Info("user left room", zap.String("roomID", roomID), zap.String("userID", userID))
	return nil
}

func (uc *roomUseCase) Delete(ctx context.Context, roomID, userID string) error {
	if roomID == "" {
		return fmt.Errorf("room ID cannot be empty")
	}

	room, err := uc.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if !room.IsOwner(userID) {
		uc.logger.Warn("unauthorized room deletion attempt",
			zap.String("roomID", roomID),
			zap.String("userID", userID),
			zap.String("ownerID", room.OwnerID),
		)
		uc.auditor.Record(string(events.EventRoomDeleted), userID, roomID, nil, ErrNotOwner)
		return ErrNotOwner
	}

	memberIDs, err := uc.repository.Delete(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to delete room", zap.Error(err), zap.String("roomID", roomID))
		uc.auditor.Record(string(events.EventRoomDeleted), userID, roomID, nil, err)
		return fmt.Errorf("failed to delete room: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishRoomDeleted(context.Background(), roomID, userID, memberIDs); err != nil {
			uc.logger.Warn("failed to publish room deleted event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventRoomDeleted), userID, roomID, map[string]any{"members": len(memberIDs)}, nil)
	uc.logger.Info("room deleted", zap.String("roomID", roomID), zap.String("ownerID", userID))
	return nil
}

func (uc *roomUseCase) RemoveMember(ctx context.Context, roomID, targetID, requesterID string) error {
	if roomID == "" || targetID == "" || requesterID == "" {
		return fmt.Errorf("room ID, target ID, and requester ID cannot be empty")
	}

	room, err := uc.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if !room.IsOwner(requesterID) {
		uc.logger.Warn("unauthorized member removal attempt",
			zap.String("roomID", roomID),
			zap.String("requesterID", requesterID),
			zap.String("ownerID", room.OwnerID),
		)
		uc.auditor.Record(string(events.EventMemberRemoved), requesterID, roomID, map[string]any{"target": targetID}, ErrNotOwner)
		return ErrNotOwner
	}

	if targetID == room.OwnerID {
		return ErrOwnerRemoved
	}

	if !room.IsMember(targetID) {
		return ErrNotMember
	}

	if err := uc.repository.RemoveMember(ctx, roomID, targetID); err != nil {
		uc.logger.Error("failed to remove member", zap.Error(err), zap.String("roomID", roomID), zap.String("targetID", targetID))
		uc.auditor.Record(string(events.EventMemberRemoved), requesterID, roomID, map[string]any{"target": targetID}, err)
		return fmt.Errorf("failed to remove member: %w", err)
	}

	go func() {
		if err := uc.eventPublisher.PublishMemberRemoved(context.Background(), roomID, targetID, requesterID); err != nil {
			uc.logger.Warn("failed to publish member removed event", zap.Error(err))
		}
	}()

	uc.auditor.Record(string(events.EventMemberRemoved), requesterID, roomID, map[string]any{"target": targetID}, nil)
	uc.logger.Info("member removed from room",
		zap.String("roomID", roomID),
		zap.String("removedUserID", targetID),
		zap.String("removedBy", requesterID),
	)
	return nil
}

func (uc *roomUseCase) Members(ctx context.Context, roomID string) ([]string, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}

	members, err := uc.repository.GetMembers(ctx, roomID)
	if err != nil {
		uc.logger.Error("failed to get room members", zap.Error(err), zap.String("roomID", roomID))
		return nil, fmt.Errorf("failed to get room members: %w", err)
	}

	return members, nil
}
