package api

import (
	"errors"
	"net/http"

	"unihaven/internal/domain/rating"
	"unihaven/internal/domain/reservation"
	reqdto "unihaven/internal/handler/dto/request"
	resdto "unihaven/internal/handler/dto/response"
	"unihaven/internal/handler/httperr"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/infra/uow"
	"unihaven/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	commands commands.RatingCommands
}

func NewRatingHandler(cmds commands.RatingCommands) *RatingHandler {
	return &RatingHandler{commands: cmds}
}

// @Summary Create rating
// @Description Rate a completed reservation. Member-only; one rating per reservation.
// @Tags ratings
// @Accept json
// @Produce json
// @Param X-Role header string true "Role token"
// @Param request body reqdto.CreateRatingRequest true "Rating request"
// @Success 201 {object} resdto.RatingCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /ratings [post]
func (h *RatingHandler) CreateRating(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateRatingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.commands.Create(c.Request.Context(), actor, commands.CreateRatingRequest{
		ReservationID: req.ReservationID,
		Score:         *req.Score,
		Comment:       req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, commands.ErrDuplicateRating):
			httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
		case errors.Is(err, commands.ErrRatingMemberOnly),
			errors.Is(err, commands.ErrRatingNotOwnReservation):
			httperr.AbortWithError(c, http.StatusForbidden, err, err.Error(), nil)
		case errors.Is(err, rating.ErrScoreOutOfRange),
			errors.Is(err, rating.ErrCommentTooLong),
			errors.Is(err, commands.ErrReservationNotCompleted):
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		case errors.Is(err, uow.ErrMaxRetriesExceeded):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err,
				"Temporary contention, retry the request", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.RatingCreatedResponse{ID: result.RatingID})
}

// @Summary Delete rating
// @Description Remove a rating. Specialist-only, restricted to the rating's university.
// @Tags ratings
// @Produce json
// @Param X-Role header string true "Role token"
// @Param id path string true "Rating ID"
// @Success 204 {object} nil
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /ratings/{id} [delete]
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	actor, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errors.New("principal missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rating ID format", nil)
		return
	}

	if err := h.commands.Delete(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrRatingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Rating not found", nil)
		case errors.Is(err, commands.ErrRatingSpecialistOnly),
			errors.Is(err, reservation.ErrUniversityMismatch):
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
