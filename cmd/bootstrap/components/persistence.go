package components

import (
	"unihaven/internal/infra/db"
	"unihaven/internal/infra/readstore"
	"unihaven/internal/infra/uow"
	"unihaven/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		// Accommodation
		fx.Annotate(
			readstore.NewAccommodationReadStore,
			fx.As(new(queries.AccommodationReadStore)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		// Write-side repositories are created per transaction inside the
		// UnitOfWork, so only the UoW itself is wired here. NewPostgresUoW
		// already returns the shared.UnitOfWork interface.
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
