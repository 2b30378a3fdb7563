package queries

import (
	"time"

	"github.com/google/uuid"
)

type ReservationView struct {
	ID                   uuid.UUID  `json:"id"`
	AccommodationID      uuid.UUID  `json:"accommodation_id"`
	AccommodationAddress string     `json:"accommodation_address"`
	MemberUID            string     `json:"member_uid"`
	MemberName           string     `json:"member_name"`
	University           string     `json:"university"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              time.Time  `json:"end_date"`
	Status               string     `json:"status"`
	CancelledBy          *string    `json:"cancelled_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ReservationFilter carries the caller-supplied filters; the principal scope
// (own reservations / own university) is applied on top and can never be
// widened by a filter.
type ReservationFilter struct {
	MemberUID       *string
	AccommodationID *uuid.UUID
	Status          *string
}

// ListScope is the fully resolved predicate handed to the read store.
type ListScope struct {
	University      *string
	MemberUID       *string
	AccommodationID *uuid.UUID
	Status          *string
}

type AccommodationView struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	AvailableFrom  time.Time `json:"available_from"`
	AvailableUntil time.Time `json:"available_until"`
	DailyPrice     float64   `json:"daily_price"`
	Beds           int       `json:"beds"`
	Bedrooms       int       `json:"bedrooms"`
	Universities   []string  `json:"universities"`
}

type AccommodationFilter struct {
	University     *string
	AvailableFrom  *time.Time
	AvailableUntil *time.Time
}
