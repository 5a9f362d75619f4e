package model

import "time"

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Members   []string  `json:"joinedUsers"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r Room) IsMember(userID string) bool {
	for _, id := range r.Members {
		if id == userID {
			return true
		}
	}

	return false
}

func (r Room) IsOwner(userID string) bool {
	return r.OwnerID == userID
}
