package commands

import (
	"context"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/rating"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra"
	"unihaven/internal/pkg/clock"
	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRatingNotFound          = errs.New("rating not found")
	ErrDuplicateRating         = errs.New("rating already exists for this reservation")
	ErrRatingMemberOnly        = errs.New("only a member may rate a reservation")
	ErrRatingSpecialistOnly    = errs.New("only a specialist may delete a rating")
	ErrRatingNotOwnReservation = errs.New("reservation does not belong to this member")
	ErrReservationNotCompleted = errs.New("reservation is not completed")
)

type CreateRatingRequest struct {
	ReservationID uuid.UUID
	Score         int
	Comment       string
}

type CreateRatingResult struct {
	RatingID uuid.UUID
}

type RatingCommands interface {
	Create(ctx context.Context, actor principal.Principal, req CreateRatingRequest) (*CreateRatingResult, error)
	Delete(ctx context.Context, actor principal.Principal, ratingID uuid.UUID) error
}

type ratingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewRatingCommands(uow shared.UnitOfWork, clk clock.Clock) RatingCommands {
	return &ratingCommandsImpl{uow: uow, clock: clk}
}

func (uc *ratingCommandsImpl) Create(ctx context.Context, actor principal.Principal, req CreateRatingRequest) (*CreateRatingResult, error) {
	member, ok := actor.(principal.Member)
	if !ok {
		return nil, ErrRatingMemberOnly
	}

	score, err := rating.NewScore(req.Score)
	if err != nil {
		return nil, err
	}
	comment, err := rating.NewComment(req.Comment)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var createdID uuid.UUID

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := tx.Reservations().FindByIDForUpdate(ctx, req.ReservationID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if res.MemberUID() != member.UID() {
			return ErrRatingNotOwnReservation
		}

		// Lazy completion: an active reservation whose stay has ended is
		// flipped to completed here rather than by a background job.
		if res.Status() != reservation.StatusCompleted {
			if derr := res.CompleteBySystem(now); derr != nil {
				return errs.Mark(derr, ErrReservationNotCompleted)
			}
			if derr := tx.Reservations().UpdateStatus(ctx, res); derr != nil {
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
		}

		exists, derr := tx.Ratings().ExistsForReservation(ctx, res.ID())
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if exists {
			return ErrDuplicateRating
		}

		rt := rating.NewRating(res.ID(), member.UID(), score, comment, now)
		if derr := tx.Ratings().Create(ctx, rt); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrDuplicateRating
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = rt.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateRatingResult{RatingID: createdID}, nil
}

func (uc *ratingCommandsImpl) Delete(ctx context.Context, actor principal.Principal, ratingID uuid.UUID) error {
	specialist, ok := actor.(principal.Specialist)
	if !ok {
		return ErrRatingSpecialistOnly
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Ratings().FindByID(ctx, ratingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrRatingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		// The rated reservation carries the university; its row is guaranteed
		// by the rating's foreign key.
		resSnap, derr := tx.Reads().ReservationByID(ctx, snap.ReservationID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if resSnap.University != specialist.University() {
			return reservation.ErrUniversityMismatch
		}

		if derr := tx.Ratings().Delete(ctx, ratingID); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
