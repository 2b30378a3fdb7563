package repository

import (
	"context"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
)

type AccommodationRepository struct {
	db db.DBTX
}

func NewAccommodationRepository(dbtx db.DBTX) *AccommodationRepository {
	return &AccommodationRepository{db: dbtx}
}

// FindByIDForUpdate locks the accommodation row for the rest of the
// transaction. Concurrent creates against the same accommodation queue up
// here, which makes the subsequent overlap probe race-free.
func (r *AccommodationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.AccommodationSnapshot, error) {
	const q = `
		SELECT id, address, available_from, available_until, daily_price, beds, bedrooms
		FROM accommodations
		WHERE id = $1
		FOR UPDATE`

	var snap shared.AccommodationSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Address, &snap.AvailableFrom, &snap.AvailableUntil,
		&snap.DailyPrice, &snap.Beds, &snap.Bedrooms,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("accommodation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock accommodation", err)
	}

	const qUniversities = `
		SELECT university_code
		FROM accommodation_universities
		WHERE accommodation_id = $1
		ORDER BY university_code`

	rows, err := r.db.Query(ctx, qUniversities, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load accommodation universities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, infra.WrapRepoErr("failed to scan university code", err)
		}
		snap.Universities = append(snap.Universities, code)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate accommodation universities", err)
	}

	return &snap, nil
}
