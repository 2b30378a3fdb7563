package queries

import (
	"context"

	"unihaven/internal/infra"
	"unihaven/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAccommodationNotFound = errs.New("accommodation not found")

type AccommodationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccommodationView, error)
	List(ctx context.Context, filter AccommodationFilter) ([]*AccommodationView, error)
}

// AccommodationQueries is the public browse surface; listings carry no
// per-principal data, so no scoping applies.
type AccommodationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AccommodationView, error)
	List(ctx context.Context, filter AccommodationFilter) ([]*AccommodationView, error)
}

type accommodationQueriesImpl struct {
	store AccommodationReadStore
}

func NewAccommodationQueries(store AccommodationReadStore) AccommodationQueries {
	return &accommodationQueriesImpl{store: store}
}

func (q *accommodationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AccommodationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *accommodationQueriesImpl) List(ctx context.Context, filter AccommodationFilter) ([]*AccommodationView, error) {
	return q.store.List(ctx, filter)
}
