package reservation

import (
	"time"

	"unihaven/internal/domain/principal"
	"unihaven/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTerminalStatus          = errs.New("cannot change status of a terminal reservation")
	ErrInvalidStatus           = errs.New("invalid reservation status")
	ErrRevertToPending         = errs.New("reservation cannot return to pending")
	ErrMemberCannotConfirm     = errs.New("only a specialist may confirm a reservation")
	ErrMemberCannotComplete    = errs.New("only a specialist may complete a reservation")
	ErrMemberCancelNotPending  = errs.New("a member may only cancel a pending reservation")
	ErrConfirmNotPending       = errs.New("only a pending reservation can be confirmed")
	ErrCompleteNotConfirmed    = errs.New("only a confirmed reservation can be completed")
	ErrNotOwner                = errs.New("reservation does not belong to this member")
	ErrUniversityMismatch      = errs.New("reservation belongs to another university")
	ErrStayNotEnded            = errs.New("reservation stay has not ended yet")
)

// Reservation is the aggregate owning the status state machine. All mutation
// goes through Transition / CompleteBySystem; the university field is copied
// from the member at creation and never re-derived afterwards.
type Reservation struct {
	id              uuid.UUID
	accommodationID uuid.UUID
	memberUID       string
	university      string
	stay            Stay
	status          Status
	cancelledBy     *principal.Kind
	createdAt       time.Time
	updatedAt       time.Time
}

func NewReservation(accommodationID uuid.UUID, memberUID, memberUniversity string, stay Stay, now time.Time) *Reservation {
	return &Reservation{
		id:              uuid.New(),
		accommodationID: accommodationID,
		memberUID:       memberUID,
		university:      memberUniversity,
		stay:            stay,
		status:          StatusPending,
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructReservation(
	id, accommodationID uuid.UUID,
	memberUID, university string,
	stay Stay,
	status Status,
	cancelledBy *principal.Kind,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		accommodationID: accommodationID,
		memberUID:       memberUID,
		university:      university,
		stay:            stay,
		status:          status,
		cancelledBy:     cancelledBy,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) AccommodationID() uuid.UUID     { return r.accommodationID }
func (r *Reservation) MemberUID() string              { return r.memberUID }
func (r *Reservation) University() string             { return r.university }
func (r *Reservation) Stay() Stay                     { return r.stay }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) CancelledBy() *principal.Kind   { return r.cancelledBy }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }

// AuthorizeActor checks whether the principal may act on this reservation at
// all: the owning member, or a specialist of the reservation's university.
func (r *Reservation) AuthorizeActor(actor principal.Principal) error {
	switch p := actor.(type) {
	case principal.Member:
		if p.UID() != r.memberUID {
			return ErrNotOwner
		}
		return nil
	case principal.Specialist:
		if p.University() != r.university {
			return ErrUniversityMismatch
		}
		return nil
	default:
		// The sum is sealed; this is unreachable without a new implementation.
		return ErrNotOwner
	}
}

// Transition applies the role-sensitive status state machine:
//
//	pending → confirmed → completed
//	pending|confirmed → cancelled
//
// Terminal statuses admit no transition. Each disallowed (role, from, to)
// combination returns its own sentinel so callers can report the exact rule
// violated.
func (r *Reservation) Transition(actor principal.Principal, to Status, now time.Time) error {
	if !to.IsValid() {
		return errs.Mark(errs.Newf("invalid reservation status %q", string(to)), ErrInvalidStatus)
	}
	if r.status.IsTerminal() {
		return errs.Mark(errs.Newf("cannot change status from '%s'", r.status), ErrTerminalStatus)
	}

	switch to {
	case StatusCancelled:
		return r.cancel(actor, now)
	case StatusConfirmed:
		return r.confirm(actor, now)
	case StatusCompleted:
		return r.complete(actor, now)
	case StatusPending:
		return ErrRevertToPending
	default:
		return ErrInvalidStatus
	}
}

func (r *Reservation) cancel(actor principal.Principal, now time.Time) error {
	switch actor.(type) {
	case principal.Member:
		// Confirmed reservations need specialist intervention.
		if r.status != StatusPending {
			return ErrMemberCancelNotPending
		}
	case principal.Specialist:
		// pending and confirmed are both cancellable; terminal was ruled out.
	}

	kind := actor.Kind()
	r.status = StatusCancelled
	r.cancelledBy = &kind
	r.updatedAt = now
	return nil
}

func (r *Reservation) confirm(actor principal.Principal, now time.Time) error {
	if _, ok := actor.(principal.Specialist); !ok {
		return ErrMemberCannotConfirm
	}
	if r.status != StatusPending {
		return ErrConfirmNotPending
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

func (r *Reservation) complete(actor principal.Principal, now time.Time) error {
	if _, ok := actor.(principal.Specialist); !ok {
		return ErrMemberCannotComplete
	}
	if r.status != StatusConfirmed {
		return ErrCompleteNotConfirmed
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}

// CompleteBySystem performs lazy completion of an active reservation whose stay
// has already ended. Used by the rating path; not tied to any principal.
func (r *Reservation) CompleteBySystem(now time.Time) error {
	if r.status.IsTerminal() {
		return errs.Mark(errs.Newf("cannot change status from '%s'", r.status), ErrTerminalStatus)
	}
	if !r.stay.HasEnded(now) {
		return ErrStayNotEnded
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}
