//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func TestNewReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.UID())
		assert.Equal(t, b.OwnerID, actual.OwnerID())
		assert.Equal(t, b.OwnerName, actual.OwnerName())
		assert.Equal(t, b.ChatID, actual.Target().ChatID())
		assert.Equal(t, b.MessageID, actual.Target().MessageID())
		assert.Equal(t, b.Now, actual.CreatedAt())
		assert.Equal(t, b.Now.Add(b.HoldFor), actual.EndTime())
	})

	t.Run("owner validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero owner id",
				mutate: func(b *builder.ReservationBuilder) { b.OwnerID = 0 },
				errIs:  reservation.ErrInvalidOwner,
			},
			{
				name:   "negative owner id",
				mutate: func(b *builder.ReservationBuilder) { b.OwnerID = -3 },
				errIs:  reservation.ErrInvalidOwner,
			},
			{
				name:   "empty owner name",
				mutate: func(b *builder.ReservationBuilder) { b.OwnerName = "" },
				errIs:  reservation.ErrEmptyOwnerName,
			},
		})
	})

	t.Run("duration validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero duration",
				mutate: func(b *builder.ReservationBuilder) { b.HoldFor = 0 },
				errIs:  reservation.ErrInvalidDuration,
			},
			{
				name:   "negative duration",
				mutate: func(b *builder.ReservationBuilder) { b.HoldFor = -time.Minute },
				errIs:  reservation.ErrInvalidDuration,
			},
			{
				name:   "one second is enough",
				mutate: func(b *builder.ReservationBuilder) { b.HoldFor = time.Second },
			},
		})
	})

	t.Run("display target validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero chat id",
				mutate: func(b *builder.ReservationBuilder) { b.ChatID = 0 },
				errIs:  reservation.ErrInvalidDisplayTarget,
			},
			{
				name:   "zero message id",
				mutate: func(b *builder.ReservationBuilder) { b.MessageID = 0 },
				errIs:  reservation.ErrInvalidDisplayTarget,
			},
		})
	})

	t.Run("zero target rejected directly", func(t *testing.T) {
		clk := clock.NewMockClock(time.Now())
		_, err := reservation.NewReservation(clk, 1, "Bob", reservation.DisplayTarget{}, time.Minute)
		assert.ErrorIs(t, err, reservation.ErrInvalidDisplayTarget)
	})

	t.Run("UID uniqueness", func(t *testing.T) {
		first, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		second, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, first.UID(), second.UID())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewReservationBuilder()
			tc.mutate(b)

			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestReservationOwnership(t *testing.T) {
	res := builder.NewReservationBuilder().BuildReconstructed()

	assert.True(t, res.IsOwnedBy(42))
	assert.False(t, res.IsOwnedBy(7))
}

func TestReservationExpiry(t *testing.T) {
	b := builder.NewReservationBuilder()
	res := b.BuildReconstructed()
	end := b.Now.Add(b.HoldFor)

	t.Run("not expired before end time", func(t *testing.T) {
		assert.False(t, res.HasExpired(b.Now))
		assert.False(t, res.HasExpired(end.Add(-time.Second)))
	})

	t.Run("expired exactly at end time", func(t *testing.T) {
		assert.True(t, res.HasExpired(end))
	})

	t.Run("expired after end time", func(t *testing.T) {
		assert.True(t, res.HasExpired(end.Add(time.Hour)))
	})
}

func TestRemainingAt(t *testing.T) {
	b := builder.NewReservationBuilder()
	res := b.BuildReconstructed()
	end := b.Now.Add(b.HoldFor)

	t.Run("full duration at creation", func(t *testing.T) {
		assert.Equal(t, b.HoldFor, res.RemainingAt(b.Now))
	})

	t.Run("counts down as time passes", func(t *testing.T) {
		assert.Equal(t, 12*time.Minute, res.RemainingAt(b.Now.Add(10*time.Minute)))
	})

	t.Run("zero at end time", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), res.RemainingAt(end))
	})

	t.Run("clamped at zero after end time", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), res.RemainingAt(end.Add(time.Hour)))
	})
}
