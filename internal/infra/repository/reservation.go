package repository

import (
	"context"
	"time"

	"unihaven/internal/domain/principal"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra"
	"unihaven/internal/infra/db"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const q = `
		INSERT INTO reservations
			(id, accommodation_id, member_uid, university_code, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, q,
		res.ID(),
		res.AccommodationID(),
		res.MemberUID(),
		res.University(),
		res.Stay().Start(),
		res.Stay().End(),
		res.Status().String(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err, infra.ClassifyPgError(err))
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const q = `
		SELECT id, accommodation_id, member_uid, university_code,
		       start_date, end_date, status, cancelled_by, created_at, updated_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE`

	var (
		resID, accommodationID   uuid.UUID
		memberUID, university    string
		startDate, endDate       time.Time
		status                   string
		cancelledBy              *string
		createdAt, updatedAt     time.Time
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&resID, &accommodationID, &memberUID, &university,
		&startDate, &endDate, &status, &cancelledBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}

	stay, err := reservation.NewStay(startDate, endDate)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid date range", err)
	}

	var by *principal.Kind
	if cancelledBy != nil {
		k := principal.Kind(*cancelledBy)
		by = &k
	}

	return reservation.ReconstructReservation(
		resID, accommodationID, memberUID, university,
		stay, reservation.Status(status), by, createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) FindActiveOverlapping(ctx context.Context, accommodationID uuid.UUID, stay reservation.Stay, excludeID *uuid.UUID) (*uuid.UUID, error) {
	// Half-open interval overlap: existing.start < candidate.end AND
	// candidate.start < existing.end. Only active statuses block.
	const q = `
		SELECT id
		FROM reservations
		WHERE accommodation_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_date < $3
		  AND end_date > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		LIMIT 1
		FOR UPDATE`

	var conflictID uuid.UUID
	err := r.db.QueryRow(ctx, q, accommodationID, stay.Start(), stay.End(), excludeID).Scan(&conflictID)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to check for overlapping reservations", err)
	}
	return &conflictID, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	const q = `
		UPDATE reservations
		SET status = $2, cancelled_by = $3, updated_at = $4
		WHERE id = $1`

	var cancelledBy *string
	if k := res.CancelledBy(); k != nil {
		s := string(*k)
		cancelledBy = &s
	}

	tag, err := r.db.Exec(ctx, q, res.ID(), res.Status().String(), cancelledBy, res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err, infra.ClassifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
