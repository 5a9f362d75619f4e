package room

import "time"

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type RoomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Members   []string  `json:"joinedUsers"`
	CreatedAt time.Time `json:"createdAt"`
}

type RoomListResponse struct {
	Joined   []RoomResponse `json:"joined"`
	Joinable []RoomResponse `json:"joinable"`
}

type MemberResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
	IsOwner         bool   `json:"isOwner"`
}

type MembersResponse struct {
	RoomID  string           `json:"roomId"`
	Members []MemberResponse `json:"joinedUsers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}
