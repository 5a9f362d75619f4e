package auth

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/lingualink/api/application/usecases/auth"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/security"
	"github.com/lingualink/api/infrastructure/storage"
	"github.com/lingualink/api/presentation/middlewares"
)

type AuthController interface {
	SignUp(ctx *gin.Context)
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
	Me(ctx *gin.Context)
}

type authController struct {
	usecase authUseCase.AuthUseCase
	cookies *security.SessionCookies
}

func NewAuthController(usecase authUseCase.AuthUseCase, cookies *security.SessionCookies) AuthController {
	return &authController{
		usecase: usecase,
		cookies: cookies,
	}
}

// SignUp accepts either JSON or a multipart form. The multipart form may
// carry an initial avatar under the "avatar" field.
func (c *authController) SignUp(ctx *gin.Context) {
	var req SignUpRequest
	var avatar []byte
	var avatarContentType string

	if strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		if err := ctx.ShouldBind(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: middlewares.TranslateValidationError(err),
			})
			return
		}

		if file, header, err := ctx.Request.FormFile("avatar"); err == nil {
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

			avatar = data
			avatarContentType = header.Header.Get("Content-Type")
		}
	} else {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: middlewares.TranslateValidationError(err),
			})
			return
		}
	}

	user, token, err := c.usecase.SignUp(ctx.Request.Context(), authUseCase.SignUpInput{
		Email:             req.Email,
		Password:          req.Password,
		Username:          req.Username,
		Avatar:            avatar,
		AvatarContentType: avatarContentType,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "signup_failed"
		switch {
		case errors.Is(err, authUseCase.ErrEmailTaken):
			status = http.StatusConflict
			code = "email_taken"
		case errors.Is(err, storage.ErrInvalidImageType), errors.Is(err, storage.ErrAvatarTooLarge):
			status = http.StatusBadRequest
			code = "invalid_avatar"
		}
		ctx.JSON(status, ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.cookies.Set(ctx.Writer, token)

	ctx.JSON(http.StatusCreated, SessionResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (c *authController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	user, token, err := c.usecase.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authUseCase.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "login_failed",
			Message: err.Error(),
		})
		return
	}

	c.cookies.Set(ctx.Writer, token)

	ctx.JSON(http.StatusOK, SessionResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (c *authController) Logout(ctx *gin.Context) {
	c.cookies.Clear(ctx.Writer)

	ctx.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out",
	})
}

func (c *authController) Me(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *model.User) UserResponse {
	joined := user.JoinedRooms
	if joined == nil {
		joined = []string{}
	}

	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		ProfileImageURL: user.ProfileImageURL,
		JoinedRooms:     joined,
		CreatedAt:       user.CreatedAt,
	}
}
