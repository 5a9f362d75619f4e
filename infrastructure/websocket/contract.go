package websocket

import (
	"context"
	"strings"

	"github.com/lingualink/api/domain/model"
)

// LobbyTopic is the topic every connected client may subscribe to for
// room-list updates. Room topics are "room:{id}".
const LobbyTopic = "lobby"

func RoomTopic(roomID string) string {
	return "room:" + roomID
}

// RoomIDFromTopic returns the room id for a room topic, or "" for any
// other topic.
func RoomIDFromTopic(topic string) string {
	if id, ok := strings.CutPrefix(topic, "room:"); ok {
		return id
	}
	return ""
}

// Frame is the wire envelope in both directions.
type Frame struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type MessagePayload struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"uid"`
	Timestamp string `json:"timestamp"`
}

type MemberPayload struct {
	UserID string `json:"userId"`
}

type RoomDeletedPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type sendPayload struct {
	Text string `json:"text"`
}

func NewMessageReceived(roomID, msgID, text, userID, timestamp string) *Frame {
	return &Frame{
		Type:  MessageReceived,
		Topic: RoomTopic(roomID),
		Data: MessagePayload{
			ID:        msgID,
			Text:      text,
			UserID:    userID,
			Timestamp: timestamp,
		},
	}
}

func NewMemberJoined(roomID, userID string) *Frame {
	return &Frame{
		Type:  MemberJoined,
		Topic: RoomTopic(roomID),
		Data:  MemberPayload{UserID: userID},
	}
}

func NewMemberLeft(roomID, userID string) *Frame {
	return &Frame{
		Type:  MemberLeft,
		Topic: RoomTopic(roomID),
		Data:  MemberPayload{UserID: userID},
	}
}

func NewRoomDeleted(roomID string) *Frame {
	return &Frame{
		Type:  RoomDeleted,
		Topic: RoomTopic(roomID),
		Data:  RoomDeletedPayload{RoomID: roomID},
	}
}

func NewError(frameType, message string) *Frame {
	return &Frame{
		Type: frameType,
		Data: ErrorPayload{Message: message},
	}
}

// MessageSender accepts chat text arriving over the socket. The message
// usecase satisfies it; the hub never talks to storage for writes.
type MessageSender interface {
	Send(ctx context.Context, roomID, userID, text string) (*model.Message, error)
}
