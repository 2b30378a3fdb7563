package response

import (
	"time"

	"unihaven/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AccommodationResponse struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	AvailableFrom  string    `json:"available_from"`
	AvailableUntil string    `json:"available_until"`
	DailyPrice     float64   `json:"daily_price"`
	Beds           int       `json:"beds"`
	Bedrooms       int       `json:"bedrooms"`
	Universities   []string  `json:"universities"`
}

func FromAccommodationView(view *queries.AccommodationView) *AccommodationResponse {
	resp := &AccommodationResponse{}
	_ = copier.Copy(resp, view)
	resp.AvailableFrom = view.AvailableFrom.Format(time.DateOnly)
	resp.AvailableUntil = view.AvailableUntil.Format(time.DateOnly)
	return resp
}

func FromAccommodationViews(views []*queries.AccommodationView) []*AccommodationResponse {
	out := make([]*AccommodationResponse, len(views))
	for i, v := range views {
		out[i] = FromAccommodationView(v)
	}
	return out
}
