//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"unihaven/internal/domain/rating"
	"unihaven/internal/domain/reservation"
	"unihaven/internal/infra"
	"unihaven/internal/infra/repository"
	"unihaven/tests/common/builder"
	"unihaven/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stayOf(t *testing.T, start, end time.Time) reservation.Stay {
	t.Helper()
	stay, err := reservation.NewStay(start, end)
	require.NoError(t, err)
	return stay
}

func seedBooking(t *testing.T, repo *repository.ReservationRepository, accID uuid.UUID, start, end time.Time, status reservation.Status) *reservation.Reservation {
	t.Helper()
	res := builder.NewReservationBuilder().
		WithAccommodationID(accID).
		WithStay(start, end).
		Build()
	require.NoError(t, repo.Create(context.Background(), res))
	if status != reservation.StatusPending {
		updated := builder.NewReservationBuilder().
			WithID(res.ID()).
			WithAccommodationID(accID).
			WithStay(start, end).
			WithStatus(status).
			Build()
		require.NoError(t, repo.UpdateStatus(context.Background(), updated))
		return updated
	}
	return res
}

func TestReservationSQL_FindActiveOverlapping(t *testing.T) {
	pool := dbtest.Setup(t)
	dbtest.Reset(t, pool)
	ctx := context.Background()

	dbtest.CreateMember(t, pool, "u1", "Ada", "hku")
	accID := dbtest.CreateAccommodation(t, pool, date(2026, 1, 1), date(2026, 12, 31), "hku")
	repo := repository.NewReservationRepository(pool)

	existing := seedBooking(t, repo, accID, date(2026, 3, 1), date(2026, 3, 8), reservation.StatusPending)

	t.Run("overlapping range reports the conflict", func(t *testing.T) {
		got, err := repo.FindActiveOverlapping(ctx, accID, stayOf(t, date(2026, 3, 5), date(2026, 3, 12)), nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, existing.ID(), *got)
	})

	t.Run("back-to-back stays do not conflict", func(t *testing.T) {
		got, err := repo.FindActiveOverlapping(ctx, accID, stayOf(t, date(2026, 3, 8), date(2026, 3, 15)), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("other accommodations do not conflict", func(t *testing.T) {
		otherID := dbtest.CreateAccommodation(t, pool, date(2026, 1, 1), date(2026, 12, 31), "hku")
		got, err := repo.FindActiveOverlapping(ctx, otherID, stayOf(t, date(2026, 3, 1), date(2026, 3, 8)), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("excludeID skips the reservation itself", func(t *testing.T) {
		id := existing.ID()
		got, err := repo.FindActiveOverlapping(ctx, accID, stayOf(t, date(2026, 3, 1), date(2026, 3, 8)), &id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("cancelled reservations release their dates", func(t *testing.T) {
		cancelled := builder.NewReservationBuilder().
			WithID(existing.ID()).
			WithAccommodationID(accID).
			WithStay(date(2026, 3, 1), date(2026, 3, 8)).
			WithStatus(reservation.StatusCancelled).
			Build()
		require.NoError(t, repo.UpdateStatus(ctx, cancelled))

		got, err := repo.FindActiveOverlapping(ctx, accID, stayOf(t, date(2026, 3, 5), date(2026, 3, 12)), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

// The exclusion constraint is the store-level backstop: even an insert that
// bypasses the probe must fail on an overlapping active range.
func TestReservationSQL_ExclusionConstraint(t *testing.T) {
	pool := dbtest.Setup(t)
	dbtest.Reset(t, pool)
	ctx := context.Background()

	dbtest.CreateMember(t, pool, "u1", "Ada", "hku")
	accID := dbtest.CreateAccommodation(t, pool, date(2026, 1, 1), date(2026, 12, 31), "hku")
	repo := repository.NewReservationRepository(pool)

	seedBooking(t, repo, accID, date(2026, 3, 1), date(2026, 3, 8), reservation.StatusConfirmed)

	t.Run("overlapping active insert is rejected as conflict", func(t *testing.T) {
		overlapping := builder.NewReservationBuilder().
			WithAccommodationID(accID).
			WithStay(date(2026, 3, 7), date(2026, 3, 10)).
			Build()

		err := repo.Create(ctx, overlapping)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("overlapping cancelled insert passes the partial constraint", func(t *testing.T) {
		cancelled := builder.NewReservationBuilder().
			WithAccommodationID(accID).
			WithStay(date(2026, 3, 7), date(2026, 3, 10)).
			WithStatus(reservation.StatusCancelled).
			Build()

		require.NoError(t, repo.Create(ctx, cancelled))
	})
}

func TestRatingSQL_UniqueConstraint(t *testing.T) {
	pool := dbtest.Setup(t)
	dbtest.Reset(t, pool)
	ctx := context.Background()

	dbtest.CreateMember(t, pool, "u1", "Ada", "hku")
	accID := dbtest.CreateAccommodation(t, pool, date(2026, 1, 1), date(2026, 12, 31), "hku")
	res := seedBooking(t, repository.NewReservationRepository(pool), accID,
		date(2026, 3, 1), date(2026, 3, 8), reservation.StatusPending)

	repo := repository.NewRatingRepository(pool)
	score, err := rating.NewScore(4)
	require.NoError(t, err)
	comment, err := rating.NewComment("")
	require.NoError(t, err)

	first := rating.NewRating(res.ID(), "u1", score, comment, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, first))

	second := rating.NewRating(res.ID(), "u1", score, comment, time.Now().UTC())
	err = repo.Create(ctx, second)

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
}

func TestMemberSQL_DeleteCascades(t *testing.T) {
	pool := dbtest.Setup(t)
	dbtest.Reset(t, pool)
	ctx := context.Background()

	dbtest.CreateMember(t, pool, "u1", "Ada", "hku")
	accID := dbtest.CreateAccommodation(t, pool, date(2026, 1, 1), date(2026, 12, 31), "hku")
	res := seedBooking(t, repository.NewReservationRepository(pool), accID,
		date(2026, 3, 1), date(2026, 3, 8), reservation.StatusPending)

	require.NoError(t, repository.NewMemberRepository(pool).Delete(ctx, "u1"))

	var count int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT count(*) FROM reservations WHERE id = $1", res.ID()).Scan(&count))
	assert.Zero(t, count)
}
