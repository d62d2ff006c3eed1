package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/secret-santa-api/internal/api/handler/v1/request"
	"github.com/mpetrenko/secret-santa-api/internal/api/handler/v1/response"
	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/service"
)

type GroupService interface {
	CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error)
	JoinGroup(ctx context.Context, inviteCode string, userID uint) (domain.Group, error)
	GetGroups(ctx context.Context, userID uint) ([]domain.Group, error)
	GetGroup(ctx context.Context, groupID, userID uint) (domain.Group, error)
	CloseRegistration(ctx context.Context, groupID, userID uint) error
	CloseGroup(ctx context.Context, groupID, userID uint) error
	AddExclusion(ctx context.Context, exclusion domain.Exclusion, userID uint) (domain.Exclusion, error)
	GetExclusions(ctx context.Context, groupID, userID uint) ([]domain.Exclusion, error)
}

type GroupHandler struct {
	svc GroupService
}

func NewGroupHandler(svc GroupService) *GroupHandler {
	return &GroupHandler{
		svc: svc,
	}
}

// HandleCreateGroup godoc
// @Summary      Create a group
// @Tags         groups
// @Produce      json
// @Param        request  body       request.CreateGroupRequest true "request body"
// @Success      201      {object}   domain.Group
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups [post]
func (h *GroupHandler) HandleCreateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	var req request.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	group, err := h.svc.CreateGroup(ctx.Request.Context(), domain.Group{
		Name:            req.Name,
		Description:     req.Description,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		PriceLimit:      req.PriceLimit,
		CreatorID:       userID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateGroup -> h.svc.CreateGroup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, group)
}

// HandleJoinGroup godoc
// @Summary      Join a group by invite code
// @Tags         groups
// @Produce      json
// @Param        request  body       request.JoinGroupRequest true "request body"
// @Success      200      {object}   domain.Group
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/join [post]
func (h *GroupHandler) HandleJoinGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	var req request.JoinGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	group, err := h.svc.JoinGroup(ctx.Request.Context(), req.InviteCode, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrAlreadyMember),
			errors.Is(err, service.ErrRegistrationClosed),
			errors.Is(err, service.ErrGroupFull),
			errors.Is(err, service.ErrGroupClosed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleJoinGroup -> h.svc.JoinGroup -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleGetGroups godoc
// @Summary      List the caller's groups
// @Tags         groups
// @Produce      json
// @Success      200      {array}    domain.Group
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups [get]
func (h *GroupHandler) HandleGetGroups(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	groups, err := h.svc.GetGroups(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetGroups -> h.svc.GetGroups -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleGetGroup godoc
// @Summary      Get a group with its members
// @Tags         groups
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      200      {object}   domain.Group
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID} [get]
func (h *GroupHandler) HandleGetGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	groupID, err := parseUintParam(ctx, "groupID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	group, err := h.svc.GetGroup(ctx.Request.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotGroupMember):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotGroupMember))
		default:
			err = fmt.Errorf("v1.HandleGetGroup -> h.svc.GetGroup -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleCloseRegistration godoc
// @Summary      Close group registration
// @Tags         groups
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/registration/close [post]
func (h *GroupHandler) HandleCloseRegistration(ctx *gin.Context) {
	h.handleGroupAction(ctx, h.svc.CloseRegistration)
}

// HandleCloseGroup godoc
// @Summary      Archive an assigned group
// @Tags         groups
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/close [post]
func (h *GroupHandler) HandleCloseGroup(ctx *gin.Context) {
	h.handleGroupAction(ctx, h.svc.CloseGroup)
}

func (h *GroupHandler) handleGroupAction(ctx *gin.Context, action func(ctx context.Context, groupID, userID uint) error) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	groupID, err := parseUintParam(ctx, "groupID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := action(ctx.Request.Context(), groupID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotOrganizer))
		case errors.Is(err, service.ErrGroupNotAssigned):
			response.RenderErr(ctx, response.ErrConflict(service.ErrGroupNotAssigned))
		default:
			err = fmt.Errorf("v1.handleGroupAction -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddExclusion godoc
// @Summary      Forbid a pairing in the draw
// @Tags         groups
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Param        request  body       request.AddExclusionRequest true "request body"
// @Success      201      {object}   domain.Exclusion
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/exclusions [post]
func (h *GroupHandler) HandleAddExclusion(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	groupID, err := parseUintParam(ctx, "groupID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.AddExclusionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	exclusion, err := h.svc.AddExclusion(ctx.Request.Context(), domain.Exclusion{
		GroupID:    groupID,
		GiverID:    req.GiverID,
		ReceiverID: req.ReceiverID,
		Mutual:     req.Mutual,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotOrganizer))
		case errors.Is(err, service.ErrSelfExclusion), errors.Is(err, service.ErrNotGroupMember):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrExclusionExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrExclusionExists))
		default:
			err = fmt.Errorf("v1.HandleAddExclusion -> h.svc.AddExclusion -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, exclusion)
}

// HandleGetExclusions godoc
// @Summary      List a group's exclusion rules
// @Tags         groups
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      200      {array}    domain.Exclusion
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/exclusions [get]
func (h *GroupHandler) HandleGetExclusions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("missing user identity")))

		return
	}

	groupID, err := parseUintParam(ctx, "groupID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	exclusions, err := h.svc.GetExclusions(ctx.Request.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotOrganizer))
		default:
			err = fmt.Errorf("v1.HandleGetExclusions -> h.svc.GetExclusions -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, exclusions)
}
