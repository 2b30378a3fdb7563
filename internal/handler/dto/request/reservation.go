package request

import (
	"time"

	"unihaven/internal/pkg/errs"
	"unihaven/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrInvalidDateFormat = errs.New("dates must be formatted YYYY-MM-DD")

type CreateReservationRequest struct {
	AccommodationID uuid.UUID `json:"accommodation_id" binding:"required"`
	// MemberUID is required when a specialist books on a member's behalf and
	// ignored for member callers.
	MemberUID string `json:"member_uid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r *CreateReservationRequest) ToInput() (commands.CreateReservationRequest, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return commands.CreateReservationRequest{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return commands.CreateReservationRequest{}, err
	}
	return commands.CreateReservationRequest{
		AccommodationID: r.AccommodationID,
		MemberUID:       r.MemberUID,
		StartDate:       start,
		EndDate:         end,
	}, nil
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errs.Mark(errs.Wrap(err, "dates must be formatted YYYY-MM-DD"), ErrInvalidDateFormat)
	}
	return t, nil
}
