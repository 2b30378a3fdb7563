package shared

import (
	"context"
	"time"

	"unihaven/internal/domain/rating"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-committed transaction for write operations, retried on
	// serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: non-transactional reads for validation outside write paths.
	Reads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Ratings() RatingRepository
	Accommodations() AccommodationRepository
	Members() MemberRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	AccommodationByID(ctx context.Context, id uuid.UUID) (*AccommodationSnapshot, error)
	MemberByUID(ctx context.Context, uid string) (*MemberSnapshot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// FindByIDForUpdate takes a row lock so concurrent transitions against the
	// same reservation serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindActiveOverlapping probes for a pending/confirmed reservation on the
	// accommodation whose range overlaps stay. Returns the conflicting id, or
	// nil when the range is free. excludeID skips one reservation (updates).
	FindActiveOverlapping(ctx context.Context, accommodationID uuid.UUID, stay reservation.Stay, excludeID *uuid.UUID) (*uuid.UUID, error)
	UpdateStatus(ctx context.Context, res *reservation.Reservation) error
}

type RatingRepository interface {
	Create(ctx context.Context, r *rating.Rating) error
	ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*RatingSnapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AccommodationRepository interface {
	// FindByIDForUpdate locks the accommodation row, serializing the
	// availability check against concurrent reservation inserts.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*AccommodationSnapshot, error)
}

// MemberRepository covers the write side only; member lookups go through
// CommandReads.
type MemberRepository interface {
	Create(ctx context.Context, uid, name, university string) error
	Delete(ctx context.Context, uid string) error
}

type NotificationRepository interface {
	// CreateJob appends an outbox row in the surrounding transaction; the
	// dispatcher delivers it after commit.
	CreateJob(ctx context.Context, topic, recipient string, payload []byte, runAt time.Time) error
}

// Write-side snapshots keep commands off the read-model query types.

type ReservationSnapshot struct {
	ID              uuid.UUID
	AccommodationID uuid.UUID
	MemberUID       string
	University      string
	StartDate       time.Time
	EndDate         time.Time
	Status          string
	CancelledBy     *string
}

type AccommodationSnapshot struct {
	ID             uuid.UUID
	Address        string
	AvailableFrom  time.Time
	AvailableUntil time.Time
	DailyPrice     float64
	Beds           int
	Bedrooms       int
	Universities   []string
}

// OfferedAt reports whether the accommodation is offered at the university.
// Codes are stored normalized, so plain equality suffices.
func (a *AccommodationSnapshot) OfferedAt(university string) bool {
	for _, u := range a.Universities {
		if u == university {
			return true
		}
	}
	return false
}

type MemberSnapshot struct {
	UID        string
	Name       string
	University string
}

type RatingSnapshot struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	MemberUID     string
	Score         int
	Comment       *string
	CreatedAt     time.Time
}
