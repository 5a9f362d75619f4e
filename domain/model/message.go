package model

import "time"

// Message is an entry in a room's message log. The log is append-only:
// there is no edit or delete operation.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"uid"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
