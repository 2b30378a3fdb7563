package response

import (
	"time"

	"unihaven/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID                   uuid.UUID `json:"id"`
	AccommodationID      uuid.UUID `json:"accommodation_id"`
	AccommodationAddress string    `json:"accommodation_address"`
	MemberUID            string    `json:"member_uid"`
	MemberName           string    `json:"member_name"`
	University           string    `json:"university"`
	StartDate            string    `json:"start_date"`
	EndDate              string    `json:"end_date"`
	Status               string    `json:"status"`
	CancelledBy          *string   `json:"cancelled_by,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	resp := &ReservationResponse{}
	_ = copier.Copy(resp, view)
	// Stays are date-granular on the wire.
	resp.StartDate = view.StartDate.Format(time.DateOnly)
	resp.EndDate = view.EndDate.Format(time.DateOnly)
	return resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(views))
	for i, v := range views {
		out[i] = FromReservationView(v)
	}
	return out
}
