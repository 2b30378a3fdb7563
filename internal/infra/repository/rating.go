package repository

import (
	"context"

	"unihaven/internal/domain/rating"
	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

type RatingRepository struct {
	db db.DBTX
}

func NewRatingRepository(dbtx db.DBTX) *RatingRepository {
	return &RatingRepository{db: dbtx}
}

// Create inserts the rating. The unique constraint on reservation_id is the
// authoritative one-rating-per-reservation invariant; a violation surfaces as
// KindDuplicateKey even if a concurrent insert won the race after the
// existence check.
func (r *RatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	const q = `
		INSERT INTO ratings (id, reservation_id, member_uid, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	var comment *string
	if !rt.Comment().IsEmpty() {
		c := rt.Comment().String()
		comment = &c
	}

	_, err := r.db.Exec(ctx, q,
		rt.ID(), rt.ReservationID(), rt.MemberUID(), rt.Score().Value(), comment, rt.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create rating", err, infra.ClassifyPgError(err))
	}
	return nil
}

func (r *RatingRepository) ExistsForReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM ratings WHERE reservation_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, reservationID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check for existing rating", err)
	}
	return exists, nil
}

func (r *RatingRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.RatingSnapshot, error) {
	const q = `
		SELECT id, reservation_id, member_uid, score, comment, created_at
		FROM ratings
		WHERE id = $1`

	var snap shared.RatingSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.ReservationID, &snap.MemberUID,
		&snap.Score, &snap.Comment, &snap.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("rating not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rating", err)
	}
	return &snap, nil
}

func (r *RatingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM ratings WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete rating", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rating not found", nil, infra.KindNotFound)
	}
	return nil
}
