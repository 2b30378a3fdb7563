package api

import (
	"errors"
	"net/http"

	reqdto "unihaven/internal/handler/dto/request"
	"unihaven/internal/handler/httperr"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/infra/uow"
	"unihaven/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	commands commands.MemberCommands
}

func NewMemberHandler(cmds commands.MemberCommands) *MemberHandler {
	return &MemberHandler{commands: cmds}
}

// @Summary Create member
// @Description Register a member at the calling specialist's university
// @Tags members
// @Accept json
// @Produce json
// @Param X-Role header string true "Role token"
// @Param request body reqdto.CreateMemberRequest true "Member request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateMemberRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	err := h.commands.Create(c.Request.Context(), actor, commands.CreateMemberRequest{
		UID:  req.UID,
		Name: req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMemberSpecialistOnly):
			httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)
		case errors.Is(err, commands.ErrMemberAlreadyExists):
			httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
		case errors.Is(err, uow.ErrMaxRetriesExceeded):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err,
				"Temporary contention, retry the request", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uid": req.UID})
}

// @Summary Delete member
// @Description Remove a member of the calling specialist's university; their reservations go with them
// @Tags members
// @Produce json
// @Param X-Role header string true "Role token"
// @Param uid path string true "Member UID"
// @Success 204 {object} nil
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /members/{uid} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	uid := c.Param("uid")

	if err := h.commands.Delete(c.Request.Context(), actor, uid); err != nil {
		switch {
		case errors.Is(err, commands.ErrMemberNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
		case errors.Is(err, commands.ErrMemberSpecialistOnly),
			errors.Is(err, commands.ErrMemberOtherUniversity):
			httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)
		case errors.Is(err, uow.ErrMaxRetriesExceeded):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err,
				"Temporary contention, retry the request", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
