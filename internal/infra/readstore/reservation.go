package readstore

import (
	"context"
	"fmt"
	"strings"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationViewColumns = `
	r.id, r.accommodation_id, a.address, r.member_uid, m.name,
	r.university_code, r.start_date, r.end_date, r.status, r.cancelled_by,
	r.created_at, r.updated_at`

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM reservations r
		JOIN accommodations a ON a.id = r.accommodation_id
		JOIN members m ON m.uid = r.member_uid
		WHERE r.id = $1`, reservationViewColumns)

	view, err := scanReservationView(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

func (r *ReservationReadStore) List(ctx context.Context, scope queries.ListScope) ([]*queries.ReservationView, error) {
	var (
		where []string
		args  []any
	)
	addCond := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if scope.University != nil {
		addCond("r.university_code = $%d", *scope.University)
	}
	if scope.MemberUID != nil {
		addCond("r.member_uid = $%d", *scope.MemberUID)
	}
	if scope.AccommodationID != nil {
		addCond("r.accommodation_id = $%d", *scope.AccommodationID)
	}
	if scope.Status != nil {
		addCond("r.status = $%d", *scope.Status)
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM reservations r
		JOIN accommodations a ON a.id = r.accommodation_id
		JOIN members m ON m.uid = r.member_uid`, reservationViewColumns)
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tORDER BY r.created_at DESC, r.id"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*queries.ReservationView
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return result, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var v queries.ReservationView
	err := row.Scan(
		&v.ID, &v.AccommodationID, &v.AccommodationAddress, &v.MemberUID, &v.MemberName,
		&v.University, &v.StartDate, &v.EndDate, &v.Status, &v.CancelledBy,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
