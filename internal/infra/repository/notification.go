package repository

import (
	"context"
	"time"

	"unihaven/internal/infra"
	"unihaven/internal/infra/db"
)

// NotificationRepository writes outbox rows. Rows committed with the business
// transaction are picked up by the dispatcher, so an event can never exist for
// a state change that rolled back.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, topic, recipient string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (topic, recipient, payload, run_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, q, topic, recipient, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
