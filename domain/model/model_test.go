package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomMembership(t *testing.T) {
	room := Room{
		ID:      "room-1",
		OwnerID: "owner",
		Members: []string{"owner", "alice"},
	}

	t.Run("should report members and non-members", func(t *testing.T) {
		req := require.New(t)

		req.True(room.IsMember("owner"))
		req.True(room.IsMember("alice"))
		req.False(room.IsMember("bob"))
	})

	t.Run("should only recognize the owner as owner", func(t *testing.T) {
		req := require.New(t)

		req.True(room.IsOwner("owner"))
		req.False(room.IsOwner("alice"))
	})
}

func TestUserHasJoined(t *testing.T) {
	req := require.New(t)

	user := User{ID: "u1", JoinedRooms: []string{"room-1"}}

	req.True(user.HasJoined("room-1"))
	req.False(user.HasJoined("room-2"))
	req.False(User{}.HasJoined("room-1"))
}

func TestUserProfile(t *testing.T) {
	req := require.New(t)

	user := User{
		ID:              "u1",
		Email:           "alice@example.com",
		Username:        "alice",
		ProfileImageURL: "https://cdn.example.com/profile_images/u1",
		PasswordHash:    "$argon2id$...",
	}

	profile := user.Profile()

	req.Equal("u1", profile.ID)
	req.Equal("alice", profile.Username)
	req.Equal(user.ProfileImageURL, profile.ProfileImageURL)
}
