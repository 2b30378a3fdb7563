package api

import (
	"errors"
	"net/http"

	"unihaven/internal/domain/reservation"
	reqdto "unihaven/internal/handler/dto/request"
	resdto "unihaven/internal/handler/dto/response"
	"unihaven/internal/handler/httperr"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/infra/uow"
	"unihaven/internal/usecase/commands"
	"unihaven/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrs queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Create reservation
// @Description Reserve an accommodation for a date range. Members book for themselves; specialists name a member of their university.
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Role header string true "Role token"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	result, err := h.commands.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	view, err := h.queries.GetByIDSystem(c.Request.Context(), result.ReservationID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get one reservation; restricted to the owning member or a specialist of its university
// @Tags reservations
// @Produce json
// @Param X-Role header string true "Role token"
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, queries.ErrAccessDenied):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access to reservation denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description Members see their own reservations; specialists see their university's. Filters narrow, never widen.
// @Tags reservations
// @Produce json
// @Param X-Role header string true "Role token"
// @Param member_uid query string false "Filter by member (specialist only)"
// @Param accommodation_id query string false "Filter by accommodation"
// @Param status query string false "Filter by status"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	var filter queries.ReservationFilter
	if v := c.Query("member_uid"); v != "" {
		filter.MemberUID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("accommodation_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid accommodation ID format", nil)
			return
		}
		filter.AccommodationID = &id
	}

	views, err := h.queries.List(c.Request.Context(), actor, filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Change reservation status
// @Description Apply a status transition (confirm, complete, cancel) respecting the lifecycle rules
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-Role header string true "Role token"
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ChangeStatusRequest true "Target status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	var req reqdto.ChangeStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.commands.ChangeStatus(c.Request.Context(), actor, id, reservation.Status(req.Status)); err != nil {
		h.respondCommandError(c, err)
		return
	}

	view, err := h.queries.GetByIDSystem(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// respondCommandError maps command failures onto the error taxonomy. Every
// distinct rule violation keeps its own message so clients can tell which rule
// fired.
func (h *ReservationHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrAccommodationNotFound),
		errors.Is(err, commands.ErrMemberNotFound),
		errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)

	case errors.Is(err, commands.ErrOverlapConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)

	case errors.Is(err, reservation.ErrNotOwner),
		errors.Is(err, reservation.ErrUniversityMismatch),
		errors.Is(err, commands.ErrMemberUniversityMismatch),
		errors.Is(err, commands.ErrNotOffered):
		httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)

	case errors.Is(err, reservation.ErrInvalidStay),
		errors.Is(err, reservation.ErrStartBeforeWindow),
		errors.Is(err, reservation.ErrEndAfterWindow),
		errors.Is(err, reservation.ErrInvalidStatus),
		errors.Is(err, reservation.ErrTerminalStatus),
		errors.Is(err, reservation.ErrRevertToPending),
		errors.Is(err, reservation.ErrMemberCannotConfirm),
		errors.Is(err, reservation.ErrMemberCannotComplete),
		errors.Is(err, reservation.ErrMemberCancelNotPending),
		errors.Is(err, reservation.ErrConfirmNotPending),
		errors.Is(err, reservation.ErrCompleteNotConfirmed),
		errors.Is(err, commands.ErrMemberUIDRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)

	case errors.Is(err, uow.ErrMaxRetriesExceeded):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err,
			"Temporary contention, retry the request", nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
