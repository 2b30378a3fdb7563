// Package notify drains the notification outbox. Lifecycle events are written
// to notification_jobs inside the same transaction as the state change they
// describe; this package picks them up after commit and hands them to a
// Publisher.
package notify

import (
	"context"
	"log/slog"
	"time"

	"unihaven/internal/pkg/config"
	"unihaven/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxAttempts caps delivery retries per job; beyond it the row stays in the
// table as a dead letter with its last_error preserved.
const maxAttempts = 5

type Dispatcher struct {
	pool      *pgxpool.Pool
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewDispatcher(pool *pgxpool.Pool, publisher Publisher, cfg config.NotifyConfig, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		logger:    logger,
		interval:  cfg.PollInterval,
		batchSize: cfg.BatchSize,
	}
}

// Run polls until the context is cancelled. One immediate pass runs before the
// first tick so restarts do not delay pending jobs by a full interval.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.dispatchOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchOnce(ctx)
		}
	}
}

func (d *Dispatcher) dispatchOnce(ctx context.Context) {
	n, err := d.DispatchBatch(ctx)
	if err != nil {
		d.logger.Error("notification dispatch failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		d.logger.Debug("notifications dispatched", slog.Int("count", n))
	}
}

type job struct {
	ID        uuid.UUID
	Topic     string
	Recipient string
	Payload   []byte
	Attempts  int
}

// DispatchBatch claims up to batchSize due jobs and delivers them. SKIP LOCKED
// lets several dispatcher instances drain the same table without contention.
func (d *Dispatcher) DispatchBatch(ctx context.Context) (int, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, errs.Wrap(err, "failed to begin dispatch transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id, topic, recipient, payload, attempts
		FROM notification_jobs
		WHERE sent_at IS NULL
		  AND run_at <= now()
		  AND attempts < $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, maxAttempts, d.batchSize)
	if err != nil {
		return 0, errs.Wrap(err, "failed to claim notification jobs")
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (job, error) {
		var j job
		err := row.Scan(&j.ID, &j.Topic, &j.Recipient, &j.Payload, &j.Attempts)
		return j, err
	})
	if err != nil {
		return 0, errs.Wrap(err, "failed to scan notification jobs")
	}

	delivered := 0
	for _, j := range jobs {
		if pubErr := d.publisher.Publish(ctx, j.Topic, j.Recipient, j.Payload); pubErr != nil {
			d.logger.Warn("notification delivery failed",
				slog.String("job_id", j.ID.String()),
				slog.String("topic", j.Topic),
				slog.Int("attempts", j.Attempts+1),
				slog.String("error", pubErr.Error()),
			)
			if _, err := tx.Exec(ctx, `
				UPDATE notification_jobs
				SET attempts = attempts + 1, last_error = $2
				WHERE id = $1
			`, j.ID, pubErr.Error()); err != nil {
				return delivered, errs.Wrap(err, "failed to record delivery failure")
			}
			continue
		}

		if _, err := tx.Exec(ctx, `
			UPDATE notification_jobs
			SET attempts = attempts + 1, last_error = NULL, sent_at = now()
			WHERE id = $1
		`, j.ID); err != nil {
			return delivered, errs.Wrap(err, "failed to mark notification sent")
		}
		delivered++
	}

	if err := tx.Commit(ctx); err != nil {
		return delivered, errs.Wrap(err, "failed to commit dispatch transaction")
	}
	return delivered, nil
}
