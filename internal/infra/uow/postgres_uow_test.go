//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"unihaven/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"exclusion violation", &pgconn.PgError{Code: "23P01"}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
		{"wrapped serialization failure", errs.Wrap(&pgconn.PgError{Code: "40001"}, "commit failed"), true},
		{"marked commit failure", errs.Mark(errs.Wrap(&pgconn.PgError{Code: "40P01"}, "commit"), errTransactionCommit), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	for attempt := 0; attempt < 4; attempt++ {
		wait := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base

		assert.GreaterOrEqual(t, wait, floor, "attempt %d", attempt)
		assert.Less(t, wait, floor+floor/5, "attempt %d: jitter exceeds 20%%", attempt)
	}
}
