//go:build unit

package rating_test

import (
	"strings"
	"testing"
	"time"

	"unihaven/internal/domain/rating"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScore(t *testing.T) {
	cases := []struct {
		name  string
		value int
		errIs error
	}{
		{name: "minimum", value: 0},
		{name: "maximum", value: 5},
		{name: "mid-range", value: 4},
		{name: "above maximum", value: 6, errIs: rating.ErrScoreOutOfRange},
		{name: "negative", value: -1, errIs: rating.ErrScoreOutOfRange},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := rating.NewScore(c.value)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.value, s.Value())
		})
	}
}

func TestNewComment(t *testing.T) {
	t.Run("empty comment is allowed", func(t *testing.T) {
		c, err := rating.NewComment("")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		c, err := rating.NewComment("  great location  ")
		require.NoError(t, err)
		assert.Equal(t, "great location", c.String())
	})

	t.Run("maximum length", func(t *testing.T) {
		_, err := rating.NewComment(strings.Repeat("a", rating.MaxCommentLength))
		require.NoError(t, err)
	})

	t.Run("over maximum length", func(t *testing.T) {
		_, err := rating.NewComment(strings.Repeat("a", rating.MaxCommentLength+1))
		require.ErrorIs(t, err, rating.ErrCommentTooLong)
	})
}

func TestNewRating(t *testing.T) {
	score, err := rating.NewScore(4)
	require.NoError(t, err)
	comment, err := rating.NewComment("clean and quiet")
	require.NoError(t, err)

	reservationID := uuid.New()
	now := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)

	r := rating.NewRating(reservationID, "u1", score, comment, now)

	assert.NotEqual(t, uuid.Nil, r.ID())
	assert.Equal(t, reservationID, r.ReservationID())
	assert.Equal(t, "u1", r.MemberUID())
	assert.Equal(t, 4, r.Score().Value())
	assert.Equal(t, "clean and quiet", r.Comment().String())
	assert.Equal(t, now, r.CreatedAt())
}
