//go:build unit || integration

// Package builder holds fluent test-data builders for the write-side aggregates.
package builder

import (
	"time"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---- accommodation ----

type AccommodationBuilder struct {
	snap shared.AccommodationSnapshot
}

func NewAccommodationBuilder() *AccommodationBuilder {
	return &AccommodationBuilder{snap: shared.AccommodationSnapshot{
		ID:             uuid.New(),
		Address:        "12 Oil Street, North Point",
		AvailableFrom:  date(2026, 1, 1),
		AvailableUntil: date(2026, 12, 31),
		DailyPrice:     480,
		Beds:           2,
		Bedrooms:       1,
		Universities:   []string{"hku"},
	}}
}

func (b *AccommodationBuilder) WithID(id uuid.UUID) *AccommodationBuilder {
	b.snap.ID = id
	return b
}

func (b *AccommodationBuilder) WithWindow(from, until time.Time) *AccommodationBuilder {
	b.snap.AvailableFrom = from
	b.snap.AvailableUntil = until
	return b
}

func (b *AccommodationBuilder) WithUniversities(codes ...string) *AccommodationBuilder {
	b.snap.Universities = codes
	return b
}

func (b *AccommodationBuilder) Build() shared.AccommodationSnapshot {
	return b.snap
}

// ---- reservation ----

type ReservationBuilder struct {
	id              uuid.UUID
	accommodationID uuid.UUID
	memberUID       string
	university      string
	start, end      time.Time
	status          reservation.Status
	cancelledBy     *principal.Kind
	createdAt       time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		id:              uuid.New(),
		accommodationID: uuid.New(),
		memberUID:       "u1",
		university:      "hku",
		start:           date(2026, 3, 1),
		end:             date(2026, 3, 8),
		status:          reservation.StatusPending,
		createdAt:       date(2026, 2, 1),
	}
}

func (b *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	b.id = id
	return b
}

func (b *ReservationBuilder) WithAccommodationID(id uuid.UUID) *ReservationBuilder {
	b.accommodationID = id
	return b
}

func (b *ReservationBuilder) WithMember(uid, university string) *ReservationBuilder {
	b.memberUID = uid
	b.university = university
	return b
}

func (b *ReservationBuilder) WithStay(start, end time.Time) *ReservationBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.status = status
	return b
}

func (b *ReservationBuilder) Build() *reservation.Reservation {
	stay, err := reservation.NewStay(b.start, b.end)
	if err != nil {
		panic(err)
	}
	return reservation.ReconstructReservation(
		b.id, b.accommodationID, b.memberUID, b.university,
		stay, b.status, b.cancelledBy, b.createdAt, b.createdAt,
	)
}
