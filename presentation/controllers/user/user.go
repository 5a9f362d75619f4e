package user

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	userUseCase "github.com/lingualink/api/application/usecases/user"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/storage"
	"github.com/lingualink/api/presentation/middlewares"
)

type UserController interface {
	GetUsers(ctx *gin.Context)
	GetUser(ctx *gin.Context)
	UpdateUsername(ctx *gin.Context)
	UpdateAvatar(ctx *gin.Context)
}

type userController struct {
	usecase userUseCase.UserUseCase
}

func NewUserController(usecase userUseCase.UserUseCase) UserController {
	return &userController{
		usecase: usecase,
	}
}

// GetUsers returns the public directory of every registered user.
func (c *userController) GetUsers(ctx *gin.Context) {
	users, err := c.usecase.GetAll(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "directory_failed",
			Message: err.Error(),
		})
		return
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfileResponse(u))
	}

	ctx.JSON(http.StatusOK, profiles)
}

func (c *userController) GetUser(ctx *gin.Context) {
	userID := ctx.Param("id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "user ID is required",
		})
		return
	}

	user, err := c.usecase.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		}
		ctx.JSON(status, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, toProfileResponse(user))
}

func (c *userController) UpdateUsername(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req UpdateUsernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	updated, err := c.usecase.UpdateUsername(ctx.Request.Context(), user.ID, req.Username)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "update_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, toProfileResponse(updated))
}

func (c *userController) UpdateAvatar(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	file, header, err := ctx.Request.FormFile("avatar")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "avatar file is required",
		})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxAvatarSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "avatar_too_large",
			Message: storage.ErrAvatarTooLarge.Error(),
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxAvatarSize+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "failed to read avatar",
		})
		return
	}

	updated, err := c.usecase.UpdateAvatar(ctx.Request.Context(), user.ID, data, header.Header.Get("Content-Type"))
	if err != nil {
		status := http.StatusInternalServerError
		code := "update_failed"
		if errors.Is(err, storage.ErrInvalidImageType) || errors.Is(err, storage.ErrAvatarTooLarge) {
			status = http.StatusBadRequest
			code = "invalid_avatar"
		}
		ctx.JSON(status, ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, toProfileResponse(updated))
}

func toProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		ID:              user.ID,
		Username:        user.Username,
		ProfileImageURL: user.ProfileImageURL,
	}
}
