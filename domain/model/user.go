package model

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`

	// PasswordHash never leaves the server.
	PasswordHash string `json:"-"`

	// JoinedRooms is loaded from the membership index, not stored on the
	// user document itself.
	JoinedRooms []string `json:"joinedRooms,omitempty"`
}

func (u User) HasJoined(roomID string) bool {
	for _, id := range u.JoinedRooms {
		if id == roomID {
			return true
		}
	}

	return false
}

// Profile is the directory view of a user: what other members see when
// rendering names and avatars.
type Profile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}
