package commands

import (
	"context"
	"time"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra"
	"unihaven/internal/pkg/clock"
	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAccommodationNotFound    = errs.New("accommodation not found")
	ErrMemberNotFound           = errs.New("member not found")
	ErrReservationNotFound      = errs.New("reservation not found")
	ErrMemberUIDRequired        = errs.New("member_uid is required for specialist bookings")
	ErrMemberUniversityMismatch = errs.New("member belongs to a different university")
	ErrNotOffered               = errs.New("accommodation is not offered at the member's university")
	ErrOverlapConflict          = errs.New("dates overlap an existing reservation")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")
)

type CreateReservationRequest struct {
	AccommodationID uuid.UUID
	// MemberUID names the member a specialist books for. Ignored when the
	// caller is a member: members always book for themselves.
	MemberUID string
	StartDate time.Time
	EndDate   time.Time
}

type CreateReservationResult struct {
	ReservationID uuid.UUID
}

type ReservationCommands interface {
	Create(ctx context.Context, actor principal.Principal, req CreateReservationRequest) (*CreateReservationResult, error)
	ChangeStatus(ctx context.Context, actor principal.Principal, reservationID uuid.UUID, to reservation.Status) error
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock) ReservationCommands {
	return &reservationCommandsImpl{uow: uow, clock: clk}
}

func (uc *reservationCommandsImpl) Create(ctx context.Context, actor principal.Principal, req CreateReservationRequest) (*CreateReservationResult, error) {
	stay, err := reservation.NewStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	// Unknown listings are rejected before a write transaction is opened; the
	// in-tx row lock re-reads authoritatively.
	if _, err := uc.uow.Reads().AccommodationByID(ctx, req.AccommodationID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := uc.clock.Now()
	var createdID uuid.UUID

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		member, derr := uc.resolveBookingMember(ctx, tx, actor, req.MemberUID)
		if derr != nil {
			return derr
		}

		// Lock first: the accommodation row serializes every concurrent
		// booking attempt against this listing.
		acc, derr := tx.Accommodations().FindByIDForUpdate(ctx, req.AccommodationID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrAccommodationNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if !acc.OfferedAt(member.University) {
			return ErrNotOffered
		}
		if derr := stay.WithinWindow(acc.AvailableFrom, acc.AvailableUntil); derr != nil {
			return derr
		}

		conflictID, derr := tx.Reservations().FindActiveOverlapping(ctx, acc.ID, stay, nil)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if conflictID != nil {
			return errs.Mark(errs.Newf("dates overlap reservation %s", conflictID), ErrOverlapConflict)
		}

		res := reservation.NewReservation(acc.ID, member.UID, member.University, stay, now)
		if derr := tx.Reservations().Create(ctx, res); derr != nil {
			// The exclusion constraint is the store-level backstop for the
			// overlap invariant.
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrOverlapConflict
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = res.ID()

		return enqueueEvent(ctx, tx, TopicReservationCreated, newReservationEvent(res), now,
			specialistsRecipient(res.University()), memberRecipient(res.MemberUID()))
	})
	if err != nil {
		return nil, err
	}

	return &CreateReservationResult{ReservationID: createdID}, nil
}

// resolveBookingMember determines which member the reservation is for. A
// member books for themselves; a specialist must name a member of their own
// university.
func (uc *reservationCommandsImpl) resolveBookingMember(ctx context.Context, tx shared.Tx, actor principal.Principal, memberUID string) (*shared.MemberSnapshot, error) {
	uid := ""
	switch p := actor.(type) {
	case principal.Member:
		uid = p.UID()
	case principal.Specialist:
		if memberUID == "" {
			return nil, ErrMemberUIDRequired
		}
		uid = memberUID
	}

	member, err := tx.Reads().MemberByUID(ctx, uid)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// The stored affiliation is authoritative; a token claiming another
	// university does not widen access.
	if member.University != actor.University() {
		return nil, ErrMemberUniversityMismatch
	}
	return member, nil
}

func (uc *reservationCommandsImpl) ChangeStatus(ctx context.Context, actor principal.Principal, reservationID uuid.UUID, to reservation.Status) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Row lock: concurrent transitions against the same reservation
		// serialize here, so neither can step past a committed terminal state.
		res, derr := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if derr := res.AuthorizeActor(actor); derr != nil {
			return derr
		}
		if derr := res.Transition(actor, to, now); derr != nil {
			return derr
		}
		if derr := tx.Reservations().UpdateStatus(ctx, res); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		event := newReservationEvent(res)
		switch to {
		case reservation.StatusCancelled:
			recipients := []string{specialistsRecipient(res.University())}
			// The member is told only when someone else cancelled for them.
			if actor.Kind() != principal.KindMember {
				recipients = append(recipients, memberRecipient(res.MemberUID()))
			}
			return enqueueEvent(ctx, tx, TopicReservationCancelled, event, now, recipients...)
		default:
			return enqueueEvent(ctx, tx, TopicReservationStatusChanged, event, now,
				memberRecipient(res.MemberUID()))
		}
	})
}
