package events

import "time"

// EventType defines the type of event
type EventType string

const (
	EventRoomsChanged  EventType = "rooms.changed"
	EventRoomDeleted   EventType = "room.deleted"
	EventMemberJoined  EventType = "member.joined"
	EventMemberLeft    EventType = "member.left"
	EventMemberRemoved EventType = "member.removed"
	EventMessageSent   EventType = "message.sent"
	EventUserUpdated   EventType = "user.updated"
	EventUserSignedUp  EventType = "user.signed_up"
)

// Event is a state-change notification. RoomID is empty for lobby-level
// events; subscribers derive their topic from it.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	RoomID    string         `json:"room_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}
