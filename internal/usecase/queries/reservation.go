package queries

import (
	"context"

	"unihaven/internal/domain/principal"
	"unihaven/internal/infra"
	"unihaven/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrAccessDenied        = errs.New("access to reservation denied")
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, scope ListScope) ([]*ReservationView, error)
}

type ReservationQueries interface {
	// GetByID enforces visibility: the owning member or a same-university
	// specialist.
	GetByID(ctx context.Context, actor principal.Principal, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem bypasses the principal scope for read-after-write paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, actor principal.Principal, filter ReservationFilter) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor principal.Principal, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	switch p := actor.(type) {
	case principal.Member:
		if p.UID() != view.MemberUID {
			return nil, ErrAccessDenied
		}
	case principal.Specialist:
		if p.University() != view.University {
			return nil, ErrAccessDenied
		}
	}

	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, actor principal.Principal, filter ReservationFilter) ([]*ReservationView, error) {
	scope := ListScope{
		AccommodationID: filter.AccommodationID,
		Status:          filter.Status,
	}

	switch p := actor.(type) {
	case principal.Member:
		// Members only ever see their own reservations; a member filter from
		// the request is ignored rather than honored.
		uid := p.UID()
		scope.MemberUID = &uid
	case principal.Specialist:
		university := p.University()
		scope.University = &university
		scope.MemberUID = filter.MemberUID
	}

	return q.store.List(ctx, scope)
}
