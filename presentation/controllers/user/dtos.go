package user

type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required,max=64"`
}

type ProfileResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
