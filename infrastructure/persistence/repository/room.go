package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/domain/repository"
)

const allRoomsKey = "rooms"

// roomRepository keeps the room document and its membership set in Redis.
// The member set is the source of truth for membership; the document's
// member list is hydrated from it on every read. All multi-key writes go
// through a transactional pipeline so membership never ends up half-linked.
type roomRepository struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewRoomRepository(client *redis.Client, tracer trace.Tracer) repository.RoomRepository {
	return &roomRepository{
		client: client,
		tracer: tracer,
	}
}

func roomKey(id string) string        { return fmt.Sprintf("room:%s", id) }
func roomMembersKey(id string) string { return fmt.Sprintf("room:%s:members", id) }
func roomLogKey(id string) string     { return fmt.Sprintf("room:%s:messages", id) }
func userRoomsKey(id string) string   { return fmt.Sprintf("user:%s:rooms", id) }

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", room.ID),
		attribute.String("room.name", room.Name),
		attribute.String("room.owner_id", room.OwnerID),
	)

	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	room.Members = []string{room.OwnerID}

	data, err := json.Marshal(room)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal room")
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	// The owner joins their own room in the same transaction that creates
	// it, so the room can never exist without a linked owner.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.ID), data, 0)
	pipe.SAdd(ctx, allRoomsKey, room.ID)
	pipe.SAdd(ctx, roomMembersKey(room.ID), room.OwnerID)
	pipe.SAdd(ctx, userRoomsKey(room.OwnerID), room.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create room")
		return fmt.Errorf("failed to create room: %w", err)
	}

	span.SetStatus(codes.Ok, "room created successfully")
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", id))

	data, err := r.client.Get(ctx, roomKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.Bool("room.found", false))
			span.SetStatus(codes.Error, "room not found")
			return nil, redis.Nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get room")
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal room")
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	members, err := r.client.SMembers(ctx, roomMembersKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get room members")
		return nil, err
	}
	room.Members = members

	span.SetAttributes(
		attribute.Bool("room.found", true),
		attribute.Int("room.members", len(members)),
	)
	span.SetStatus(codes.Ok, "room retrieved successfully")
	return &room, nil
}

func (r *roomRepository) GetAll(ctx context.Context) ([]*model.Room, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetAll")
	defer span.End()

	ids, err := r.client.SMembers(ctx, allRoomsKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list rooms")
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := r.GetByID(ctx, id)
		if err != nil {
			if err == redis.Nil {
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load room")
			return nil, err
		}
		rooms = append(rooms, room)
	}

	span.SetAttributes(attribute.Int("rooms.count", len(rooms)))
	span.SetStatus(codes.Ok, "rooms listed successfully")
	return rooms, nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", id))

	members, err := r.client.SMembers(ctx, roomMembersKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get room members before delete")
		return nil, err
	}

	// The room document, its member set, its message log, and every
	// member's back-reference go away in one transaction.
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.Del(ctx, roomMembersKey(id))
	pipe.Del(ctx, roomLogKey(id))
	pipe.SRem(ctx, allRoomsKey, id)
	for _, memberID := range members {
		pipe.SRem(ctx, userRoomsKey(memberID), id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete room")
		return nil, fmt.Errorf("failed to delete room: %w", err)
	}

	span.SetAttributes(attribute.Int("room.members", len(members)))
	span.SetStatus(codes.Ok, "room deleted successfully")
	return members, nil
}

func (r *roomRepository) AddMember(ctx context.Context, roomID, userID string) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.AddMember")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", roomID),
		attribute.String("user.id", userID),
	)

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, roomMembersKey(roomID), userID)
	pipe.SAdd(ctx, userRoomsKey(userID), roomID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add member")
		return fmt.Errorf("failed to add member: %w", err)
	}

	span.SetStatus(codes.Ok, "member added successfully")
	return nil
}

func (r *roomRepository) RemoveMember(ctx context.Context, roomID, userID string) error {
	ctx, span := r.tracer.Start(ctx, "roomRepository.RemoveMember")
	defer span.End()

	span.SetAttributes(
		attribute.String("room.id", roomID),
		attribute.String("user.id", userID),
	)

	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, roomMembersKey(roomID), userID)
	pipe.SRem(ctx, userRoomsKey(userID), roomID)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove member")
		return fmt.Errorf("failed to remove member: %w", err)
	}

	span.SetStatus(codes.Ok, "member removed successfully")
	return nil
}

func (r *roomRepository) GetMembers(ctx context.Context, roomID string) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "roomRepository.GetMembers")
	defer span.End()

	span.SetAttributes(attribute.String("room.id", roomID))

	members, err := r.client.SMembers(ctx, roomMembersKey(roomID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get room members")
		return nil, err
	}

	span.SetAttributes(attribute.Int("room.members", len(members)))
	span.SetStatus(codes.Ok, "room members retrieved successfully")
	return members, nil
}
