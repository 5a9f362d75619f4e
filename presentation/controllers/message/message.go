package message

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	messageUseCase "github.com/lingualink/api/application/usecases/message"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/presentation/middlewares"
)

type MessageController interface {
	SendMessage(ctx *gin.Context)
	GetMessages(ctx *gin.Context)
	GetMessageCount(ctx *gin.Context)
}

type messageController struct {
	usecase messageUseCase.MessageUseCase
}

func NewMessageController(usecase messageUseCase.MessageUseCase) MessageController {
	return &messageController{
		usecase: usecase,
	}
}

func (c *messageController) SendMessage(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	roomID := ctx.Param("id")

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	msg, err := c.usecase.Send(ctx.Request.Context(), roomID, user.ID, req.Text)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "send_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (c *messageController) GetMessages(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	roomID := ctx.Param("id")

	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "50"), 10, 64)

	messages, err := c.usecase.History(ctx.Request.Context(), roomID, user.ID, limit)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "history_failed",
			Message: err.Error(),
		})
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, toMessageResponse(m))
	}

	ctx.JSON(http.StatusOK, responses)
}

func (c *messageController) GetMessageCount(ctx *gin.Context) {
	roomID := ctx.Param("id")

	count, err := c.usecase.Count(ctx.Request.Context(), roomID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "count_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, CountResponse{
		RoomID: roomID,
		Count:  count,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, messageUseCase.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, messageUseCase.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, messageUseCase.ErrEmptyMessage),
		errors.Is(err, messageUseCase.ErrMessageTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func toMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
	}
}
