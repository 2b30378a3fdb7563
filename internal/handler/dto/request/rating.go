package request

import (
	"github.com/google/uuid"
)

type CreateRatingRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	// Score binds through a pointer so that an explicit 0 survives validation.
	Score   *int   `json:"score" binding:"required"`
	Comment string `json:"comment"`
}
