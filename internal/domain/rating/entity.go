package rating

import (
	"strings"
	"time"

	"unihaven/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrScoreOutOfRange = errs.New("score must be between 0 and 5")
	ErrCommentTooLong  = errs.New("comment exceeds maximum length")
)

const MaxCommentLength = 1000

// Score is an integer rating in [0,5]. Out-of-range values are rejected, never
// clamped.
type Score struct {
	value int
}

func NewScore(value int) (Score, error) {
	if value < 0 || value > 5 {
		return Score{}, ErrScoreOutOfRange
	}
	return Score{value: value}, nil
}

func (s Score) Value() int { return s.value }

type Comment struct {
	value string
}

// NewComment trims and bounds an optional free-text comment. Empty is valid.
func NewComment(value string) (Comment, error) {
	value = strings.TrimSpace(value)
	if len(value) > MaxCommentLength {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{value: value}, nil
}

func (c Comment) String() string { return c.value }
func (c Comment) IsEmpty() bool  { return c.value == "" }

// Rating is the single review a member may leave for a completed reservation.
// Uniqueness per reservation is enforced by the storage layer; this aggregate
// only owns value validity.
type Rating struct {
	id            uuid.UUID
	reservationID uuid.UUID
	memberUID     string
	score         Score
	comment       Comment
	createdAt     time.Time
}

func NewRating(reservationID uuid.UUID, memberUID string, score Score, comment Comment, now time.Time) *Rating {
	return &Rating{
		id:            uuid.New(),
		reservationID: reservationID,
		memberUID:     memberUID,
		score:         score,
		comment:       comment,
		createdAt:     now,
	}
}

func ReconstructRating(id, reservationID uuid.UUID, memberUID string, score Score, comment Comment, createdAt time.Time) *Rating {
	return &Rating{
		id:            id,
		reservationID: reservationID,
		memberUID:     memberUID,
		score:         score,
		comment:       comment,
		createdAt:     createdAt,
	}
}

func (r *Rating) ID() uuid.UUID            { return r.id }
func (r *Rating) ReservationID() uuid.UUID { return r.reservationID }
func (r *Rating) MemberUID() string        { return r.memberUID }
func (r *Rating) Score() Score             { return r.score }
func (r *Rating) Comment() Comment         { return r.comment }
func (r *Rating) CreatedAt() time.Time     { return r.createdAt }
