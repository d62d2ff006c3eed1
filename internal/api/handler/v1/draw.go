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

type DrawService interface {
	RunDraw(ctx context.Context, groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error)
	GetMyAssignment(ctx context.Context, groupID, userID uint) (domain.Participant, error)
	GetAssignment(ctx context.Context, groupID, userID uint) (domain.Assignment, error)
}

type DrawHandler struct {
	svc DrawService
}

func NewDrawHandler(svc DrawService) *DrawHandler {
	return &DrawHandler{
		svc: svc,
	}
}

// HandleRunDraw godoc
// @Summary      Run the assignment for a group
// @Description  Draws a giver/receiver assignment honoring all exclusion
// @Description  rules. Supplying a seed makes the round reproducible.
// @Tags         draw
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Param        request  body       request.RunDrawRequest false "request body"
// @Success      201      {object}   domain.Assignment
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/draw [post]
func (h *DrawHandler) HandleRunDraw(ctx *gin.Context) {
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

	var req request.RunDrawRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
	}

	assignment, err := h.svc.RunDraw(ctx.Request.Context(), groupID, userID, req.Seed, req.AvoidRepeat)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotOrganizer))
		case errors.Is(err, service.ErrGroupClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrGroupClosed))
		case errors.Is(err, service.ErrNotEnoughMembers),
			errors.Is(err, service.ErrInvalidDrawInput):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInfeasibleDraw):
			// The message names the participant blocking the draw.
			response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		default:
			err = fmt.Errorf("v1.HandleRunDraw -> h.svc.RunDraw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

// HandleGetMyAssignment godoc
// @Summary      Reveal who the caller gives to
// @Tags         draw
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      200      {object}   domain.Participant
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/assignment [get]
func (h *DrawHandler) HandleGetMyAssignment(ctx *gin.Context) {
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

	receiver, err := h.svc.GetMyAssignment(ctx.Request.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotGroupMember):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotGroupMember))
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAssignmentNotFound))
		default:
			err = fmt.Errorf("v1.HandleGetMyAssignment -> h.svc.GetMyAssignment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, receiver)
}

// HandleGetAssignment godoc
// @Summary      Get the full round (organizer only)
// @Tags         draw
// @Produce      json
// @Param        groupID  path       int  true "group ID"
// @Success      200      {object}   domain.Assignment
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /groups/{groupID}/assignments [get]
func (h *DrawHandler) HandleGetAssignment(ctx *gin.Context) {
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

	assignment, err := h.svc.GetAssignment(ctx.Request.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrGroupNotFound))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNotOrganizer))
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAssignmentNotFound))
		default:
			err = fmt.Errorf("v1.HandleGetAssignment -> h.svc.GetAssignment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, assignment)
}
