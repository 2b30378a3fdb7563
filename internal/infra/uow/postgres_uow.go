package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
	"unihaven/internal/infra/repository"
	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// Read committed prevents dirty reads while allowing concurrent writers; the
// row locks taken by the repositories do the per-accommodation and
// per-reservation serialization.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithRetry(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) Reads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in the retry loop to prevent connection leaks.
func (u *PostgresUoW) runInTxWithRetry(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return err
		}
		if attempt == maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, ErrMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, base)
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return ErrMaxRetriesExceeded
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- safe after masking the sign bit
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	reservationRepo   shared.ReservationRepository
	ratingRepo        shared.RatingRepository
	accommodationRepo shared.AccommodationRepository
	memberRepo        shared.MemberRepository
	notificationRepo  shared.NotificationRepository
	commandReads      shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Ratings() shared.RatingRepository {
	if t.ratingRepo == nil {
		t.ratingRepo = repository.NewRatingRepository(t.dbtx)
	}
	return t.ratingRepo
}

func (t *pgTx) Accommodations() shared.AccommodationRepository {
	if t.accommodationRepo == nil {
		t.accommodationRepo = repository.NewAccommodationRepository(t.dbtx)
	}
	return t.accommodationRepo
}

func (t *pgTx) Members() shared.MemberRepository {
	if t.memberRepo == nil {
		t.memberRepo = repository.NewMemberRepository(t.dbtx)
	}
	return t.memberRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

// commandReads serves write-side snapshot lookups without row locks.
type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	const q = `
		SELECT id, accommodation_id, member_uid, university_code,
		       start_date, end_date, status, cancelled_by
		FROM reservations
		WHERE id = $1`

	var snap shared.ReservationSnapshot
	err := r.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.AccommodationID, &snap.MemberUID, &snap.University,
		&snap.StartDate, &snap.EndDate, &snap.Status, &snap.CancelledBy,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read reservation snapshot", err)
	}
	return &snap, nil
}

func (r *commandReads) AccommodationByID(ctx context.Context, id uuid.UUID) (*shared.AccommodationSnapshot, error) {
	const q = `
		SELECT a.id, a.address, a.available_from, a.available_until,
		       a.daily_price, a.beds, a.bedrooms,
		       COALESCE(array_agg(au.university_code ORDER BY au.university_code)
		                FILTER (WHERE au.university_code IS NOT NULL), '{}')
		FROM accommodations a
		LEFT JOIN accommodation_universities au ON au.accommodation_id = a.id
		WHERE a.id = $1
		GROUP BY a.id`

	var snap shared.AccommodationSnapshot
	err := r.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Address, &snap.AvailableFrom, &snap.AvailableUntil,
		&snap.DailyPrice, &snap.Beds, &snap.Bedrooms, &snap.Universities,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("accommodation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read accommodation snapshot", err)
	}
	return &snap, nil
}

func (r *commandReads) MemberByUID(ctx context.Context, uid string) (*shared.MemberSnapshot, error) {
	return repository.NewMemberRepository(r.dbtx).FindByUID(ctx, uid)
}
