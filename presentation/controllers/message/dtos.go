package message

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	UserID    string `json:"uid"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type CountResponse struct {
	RoomID string `json:"roomId"`
	Count  int64  `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
