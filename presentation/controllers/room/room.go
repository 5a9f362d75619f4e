package room

import (
	"errors"
	"net/http"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gin-gonic/gin"

	roomUseCase "github.com/lingualink/api/application/usecases/room"
	userUseCase "github.com/lingualink/api/application/usecases/user"
	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/presentation/middlewares"
)

type RoomController interface {
	CreateRoom(ctx *gin.Context)
	GetRooms(ctx *gin.Context)
	GetRoom(ctx *gin.Context)
	DeleteRoom(ctx *gin.Context)
	JoinRoom(ctx *gin.Context)
	LeaveRoom(ctx *gin.Context)
	RemoveMember(ctx *gin.Context)
	GetMembers(ctx *gin.Context)
}

type roomController struct {
	usecase roomUseCase.RoomUseCase
	users   userUseCase.UserUseCase
}

func NewRoomController(usecase roomUseCase.RoomUseCase, users userUseCase.UserUseCase) RoomController {
	return &roomController{
		usecase: usecase,
		users:   users,
	}
}

func (c *roomController) CreateRoom(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	room, err := c.usecase.Create(ctx.Request.Context(), req.Name, user.ID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, roomUseCase.ErrEmptyRoomName) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, ErrorResponse{
			Error:   "creation_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, toRoomResponse(room))
}

// GetRooms lists every room for the lobby, split into the caller's rooms
// and the rooms still open to join.
func (c *roomController) GetRooms(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	rooms, err := c.usecase.GetAll(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "listing_failed",
			Message: err.Error(),
		})
		return
	}

	joinedIDs := mapset.NewSet(user.JoinedRooms...)

	joined := make([]RoomResponse, 0, joinedIDs.Cardinality())
	joinable := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		if joinedIDs.Contains(r.ID) {
			joined = append(joined, toRoomResponse(r))
		} else {
			joinable = append(joinable, toRoomResponse(r))
		}
	}

	ctx.JSON(http.StatusOK, RoomListResponse{
		Joined:   joined,
		Joinable: joinable,
	})
}

func (c *roomController) GetRoom(ctx *gin.Context) {
	roomID := ctx.Param("id")
	if roomID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "room ID is required",
		})
		return
	}

	room, err := c.usecase.GetByID(ctx.Request.Context(), roomID)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, toRoomResponse(room))
}

func (c *roomController) DeleteRoom(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	roomID := ctx.Param("id")
	if roomID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "room ID is required",
		})
		return
	}

	if err := c.usecase.Delete(ctx.Request.Context(), roomID, user.ID); err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "deletion_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, SuccessResponse{
		Message: "room deleted successfully",
	})
}

func (c *roomController) JoinRoom(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	roomID := ctx.Param("id")

	if err := c.usecase.Join(ctx.Request.Context(), roomID, user.ID); err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "join_failed",
			Message: err.Error(),
		})
		return
	}

	room, err := c.usecase.GetByID(ctx.Request.Context(), roomID)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "join_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, toRoomResponse(room))
}

func (c *roomController) LeaveRoom(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	roomID := ctx.Param("id")

	if err := c.usecase.Leave(ctx.Request.Context(), roomID, user.ID); err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "leave_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, SuccessResponse{
		Message: "left room successfully",
	})
}

func (c *roomController) RemoveMember(ctx *gin.Context) {
	user, ok := middlewares.GetUserFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	roomID := ctx.Param("id")
	targetID := ctx.Param("userId")

	if err := c.usecase.RemoveMember(ctx.Request.Context(), roomID, targetID, user.ID); err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "removal_failed",
			Message: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, SuccessResponse{
		Message: "member removed successfully",
	})
}

func (c *roomController) GetMembers(ctx *gin.Context) {
	roomID := ctx.Param("id")
	if roomID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "room ID is required",
		})
		return
	}

	room, err := c.usecase.GetByID(ctx.Request.Context(), roomID)
	if err != nil {
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:   "listing_failed",
			Message: err.Error(),
		})
		return
	}

	members := make([]MemberResponse, 0, len(room.Members))
	for _, memberID := range room.Members {
		member := MemberResponse{
			ID:      memberID,
			IsOwner: memberID == room.OwnerID,
		}

		// A member whose profile cannot be resolved still shows up in the
		// roster, just without a name.
		if u, err := c.users.GetByID(ctx.Request.Context(), memberID); err == nil {
			member.Username = u.Username
			member.ProfileImageURL = u.ProfileImageURL
		}

		members = append(members, member)
	}

	ctx.JSON(http.StatusOK, MembersResponse{
		RoomID:  roomID,
		Members: members,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, roomUseCase.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, roomUseCase.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, roomUseCase.ErrNotMember),
		errors.Is(err, roomUseCase.ErrOwnerLeave),
		errors.Is(err, roomUseCase.ErrOwnerRemoved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "authentication required",
	})
}

func toRoomResponse(room *model.Room) RoomResponse {
	members := room.Members
	if members == nil {
		members = []string{}
	}

	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		OwnerID:   room.OwnerID,
		Members:   members,
		CreatedAt: room.CreatedAt,
	}
}
