package readstore

import (
	"context"
	"fmt"
	"strings"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/queries"

	"github.com/google/uuid"
)

type AccommodationReadStore struct {
	db db.DBTX
}

func NewAccommodationReadStore(dbtx db.DBTX) *AccommodationReadStore {
	return &AccommodationReadStore{db: dbtx}
}

func (r *AccommodationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AccommodationView, error) {
	const q = `
		SELECT a.id, a.address, a.available_from, a.available_until,
		       a.daily_price, a.beds, a.bedrooms,
		       COALESCE(array_agg(au.university_code ORDER BY au.university_code)
		                FILTER (WHERE au.university_code IS NOT NULL), '{}')
		FROM accommodations a
		LEFT JOIN accommodation_universities au ON au.accommodation_id = a.id
		WHERE a.id = $1
		GROUP BY a.id`

	var v queries.AccommodationView
	err := r.db.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.Address, &v.AvailableFrom, &v.AvailableUntil,
		&v.DailyPrice, &v.Beds, &v.Bedrooms, &v.Universities,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("accommodation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find accommodation by ID", err)
	}
	return &v, nil
}

func (r *AccommodationReadStore) List(ctx context.Context, filter queries.AccommodationFilter) ([]*queries.AccommodationView, error) {
	var (
		where []string
		args  []any
	)
	addCond := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.University != nil {
		addCond(`EXISTS (
			SELECT 1 FROM accommodation_universities x
			WHERE x.accommodation_id = a.id AND x.university_code = $%d)`, strings.ToLower(*filter.University))
	}
	if filter.AvailableFrom != nil {
		addCond("a.available_from <= $%d", *filter.AvailableFrom)
	}
	if filter.AvailableUntil != nil {
		addCond("a.available_until >= $%d", *filter.AvailableUntil)
	}

	q := `
		SELECT a.id, a.address, a.available_from, a.available_until,
		       a.daily_price, a.beds, a.bedrooms,
		       COALESCE(array_agg(au.university_code ORDER BY au.university_code)
		                FILTER (WHERE au.university_code IS NOT NULL), '{}')
		FROM accommodations a
		LEFT JOIN accommodation_universities au ON au.accommodation_id = a.id`
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tGROUP BY a.id\n\t\tORDER BY a.daily_price, a.id"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list accommodations", err)
	}
	defer rows.Close()

	var result []*queries.AccommodationView
	for rows.Next() {
		var v queries.AccommodationView
		err := rows.Scan(
			&v.ID, &v.Address, &v.AvailableFrom, &v.AvailableUntil,
			&v.DailyPrice, &v.Beds, &v.Bedrooms, &v.Universities,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan accommodation row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate accommodations", err)
	}
	return result, nil
}
