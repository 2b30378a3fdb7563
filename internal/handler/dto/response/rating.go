package response

import (
	"github.com/google/uuid"
)

type RatingCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
