package commands

import (
	"context"
	"encoding/json"
	"time"

	"unihaven/internal/domain/reservation"
	"unihaven/internal/usecase/shared"
)

const (
	TopicReservationCreated       = "reservation_created"
	TopicReservationCancelled     = "reservation_cancelled"
	TopicReservationStatusChanged = "reservation_status_changed"
)

// ReservationEvent is the fixed payload contract handed to the notification
// dispatcher for every lifecycle event.
type ReservationEvent struct {
	ReservationID   string `json:"reservation_id"`
	MemberUID       string `json:"member_uid"`
	University      string `json:"university"`
	AccommodationID string `json:"accommodation_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Status          string `json:"status"`
}

func newReservationEvent(res *reservation.Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID:   res.ID().String(),
		MemberUID:       res.MemberUID(),
		University:      res.University(),
		AccommodationID: res.AccommodationID().String(),
		StartDate:       res.Stay().Start().Format(time.DateOnly),
		EndDate:         res.Stay().End().Format(time.DateOnly),
		Status:          res.Status().String(),
	}
}

func specialistsRecipient(university string) string {
	return "specialists@" + university
}

func memberRecipient(uid string) string {
	return "member@" + uid
}

// enqueueEvent writes one outbox row per recipient inside the surrounding
// transaction; delivery happens after commit.
func enqueueEvent(ctx context.Context, tx shared.Tx, topic string, event ReservationEvent, now time.Time, recipients ...string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := tx.Notifications().CreateJob(ctx, topic, recipient, payload, now); err != nil {
			return err
		}
	}
	return nil
}
