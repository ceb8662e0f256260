//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"suitcase-timer/internal/infra"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/usecase/queries"
	"suitcase-timer/tests/common/builder"
	queriesmock "suitcase-timer/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStatusFixture(t *testing.T) (*queriesmock.MockReservationReader, *clock.MockClock, queries.ReservationQueries) {
	t.Helper()
	ctrl := gomock.NewController(t)
	reader := queriesmock.NewMockReservationReader(ctrl)
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return reader, clk, queries.NewReservationQueries(reader, clk)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("active reservation reports the remaining time", func(t *testing.T) {
		reader, clk, q := newStatusFixture(t)
		b := builder.NewReservationBuilder()
		res := b.BuildReconstructed()
		clk.Set(b.Now.Add(12 * time.Minute))
		reader.EXPECT().Find(gomock.Any()).Return(res, nil).Times(1)

		view, err := q.Status(ctx)
		require.NoError(t, err)

		end := res.EndTime()
		expected := &queries.StatusView{
			Active:    true,
			Remaining: 10 * time.Minute,
			Countdown: "⏳ Time remaining: 10:00",
			OwnerID:   res.OwnerID(),
			OwnerName: res.OwnerName(),
			EndTime:   &end,
		}
		if diff := cmp.Diff(expected, view); diff != "" {
			t.Errorf("status view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no persisted reservation means available", func(t *testing.T) {
		reader, _, q := newStatusFixture(t)
		reader.EXPECT().Find(gomock.Any()).
			Return(nil, infra.WrapRepoErr("no reservation persisted", errors.New("no rows"), infra.KindNotFound)).Times(1)

		view, err := q.Status(ctx)
		require.NoError(t, err)

		assert.False(t, view.Active)
		assert.Equal(t, "🧳 The suitcase is available!", view.Countdown)
		assert.Zero(t, view.OwnerID)
		assert.Nil(t, view.EndTime)
	})

	t.Run("expired but not yet released reservation reads as available", func(t *testing.T) {
		reader, clk, q := newStatusFixture(t)
		b := builder.NewReservationBuilder()
		res := b.BuildReconstructed()
		clk.Set(b.Now.Add(b.HoldFor).Add(time.Second))
		reader.EXPECT().Find(gomock.Any()).Return(res, nil).Times(1)

		view, err := q.Status(ctx)
		require.NoError(t, err)

		assert.False(t, view.Active)
		assert.Equal(t, "🧳 The suitcase is available!", view.Countdown)
	})

	t.Run("store failures propagate", func(t *testing.T) {
		reader, _, q := newStatusFixture(t)
		reader.EXPECT().Find(gomock.Any()).
			Return(nil, infra.WrapRepoErr("find failed", errors.New("connection reset"))).Times(1)

		view, err := q.Status(ctx)
		assert.Error(t, err)
		assert.Nil(t, view)
	})
}
