package api

import (
	"errors"
	"net/http"

	reqdto "unihaven/internal/handler/dto/request"
	resdto "unihaven/internal/handler/dto/response"
	"unihaven/internal/handler/httperr"
	"unihaven/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccommodationHandler serves the public browse surface; no role token needed.
type AccommodationHandler struct {
	queries queries.AccommodationQueries
}

func NewAccommodationHandler(qrs queries.AccommodationQueries) *AccommodationHandler {
	return &AccommodationHandler{queries: qrs}
}

// @Summary List accommodations
// @Description Browse accommodations, optionally filtered by university and availability window
// @Tags accommodations
// @Produce json
// @Param university query string false "University code"
// @Param available_from query string false "Earliest availability (YYYY-MM-DD)"
// @Param available_until query string false "Latest availability (YYYY-MM-DD)"
// @Success 200 {array} resdto.AccommodationResponse
// @Failure 400 {object} httperr.Response
// @Router /accommodations [get]
func (h *AccommodationHandler) ListAccommodations(c *gin.Context) {
	var query reqdto.AccommodationListQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	views, err := h.queries.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAccommodationViews(views))
}

// @Summary Get accommodation
// @Description Get one accommodation by ID
// @Tags accommodations
// @Produce json
// @Param id path string true "Accommodation ID"
// @Success 200 {object} resdto.AccommodationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /accommodations/{id} [get]
func (h *AccommodationHandler) GetAccommodation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid accommodation ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrAccommodationNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Accommodation not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAccommodationView(view))
}
