//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"unihaven/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, start, end time.Time) reservation.Stay {
	t.Helper()
	s, err := reservation.NewStay(start, end)
	require.NoError(t, err)
	return s
}

func TestNewStay(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		s, err := reservation.NewStay(date(2025, 11, 1), date(2025, 11, 10))
		require.NoError(t, err)
		assert.Equal(t, 9, s.Nights())
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := reservation.NewStay(date(2025, 11, 1), date(2025, 11, 1))
		require.ErrorIs(t, err, reservation.ErrInvalidStay)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := reservation.NewStay(date(2025, 11, 10), date(2025, 11, 1))
		require.ErrorIs(t, err, reservation.ErrInvalidStay)
	})

	t.Run("time component is discarded", func(t *testing.T) {
		s, err := reservation.NewStay(
			time.Date(2025, 11, 1, 23, 30, 0, 0, time.UTC),
			time.Date(2025, 11, 2, 1, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 11, 1), s.Start())
		assert.Equal(t, date(2025, 11, 2), s.End())
	})
}

func TestStayOverlaps(t *testing.T) {
	base := mustStay(t, date(2025, 11, 1), date(2025, 11, 10))

	cases := []struct {
		name    string
		other   reservation.Stay
		overlap bool
	}{
		{name: "identical", other: mustStay(t, date(2025, 11, 1), date(2025, 11, 10)), overlap: true},
		{name: "contained", other: mustStay(t, date(2025, 11, 3), date(2025, 11, 5)), overlap: true},
		{name: "straddles start", other: mustStay(t, date(2025, 10, 28), date(2025, 11, 2)), overlap: true},
		{name: "straddles end", other: mustStay(t, date(2025, 11, 5), date(2025, 11, 15)), overlap: true},
		{name: "covers", other: mustStay(t, date(2025, 10, 1), date(2025, 12, 1)), overlap: true},
		{name: "adjacent before", other: mustStay(t, date(2025, 10, 20), date(2025, 11, 1)), overlap: false},
		{name: "adjacent after", other: mustStay(t, date(2025, 11, 10), date(2025, 11, 20)), overlap: false},
		{name: "disjoint", other: mustStay(t, date(2025, 12, 1), date(2025, 12, 10)), overlap: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.overlap, base.Overlaps(c.other))
			assert.Equal(t, c.overlap, c.other.Overlaps(base))
		})
	}
}

func TestStayWithinWindow(t *testing.T) {
	from := date(2025, 1, 1)
	until := date(2025, 12, 31)

	t.Run("inside window", func(t *testing.T) {
		s := mustStay(t, date(2025, 11, 1), date(2025, 11, 10))
		require.NoError(t, s.WithinWindow(from, until))
	})

	t.Run("start too early", func(t *testing.T) {
		s := mustStay(t, date(2024, 12, 31), date(2025, 1, 5))
		require.ErrorIs(t, s.WithinWindow(from, until), reservation.ErrStartBeforeWindow)
	})

	t.Run("end too late", func(t *testing.T) {
		s := mustStay(t, date(2025, 12, 20), date(2026, 1, 2))
		require.ErrorIs(t, s.WithinWindow(from, until), reservation.ErrEndAfterWindow)
	})

	t.Run("exactly fills window", func(t *testing.T) {
		s := mustStay(t, from, until)
		require.NoError(t, s.WithinWindow(from, until))
	})
}

func TestStayHasEnded(t *testing.T) {
	s := mustStay(t, date(2025, 11, 1), date(2025, 11, 10))

	assert.False(t, s.HasEnded(date(2025, 11, 5)))
	assert.False(t, s.HasEnded(date(2025, 11, 9)))
	assert.True(t, s.HasEnded(date(2025, 11, 10)))
	assert.True(t, s.HasEnded(date(2025, 12, 1)))
}
