//go:build unit

package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/infra"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/usecase/commands"
	"suitcase-timer/internal/worker"
	"suitcase-timer/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickInterval = 10 * time.Millisecond

type fakeStore struct {
	mu  sync.Mutex
	res *reservation.Reservation
}

func (f *fakeStore) Find(_ context.Context) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.res == nil {
		return nil, infra.WrapRepoErr("no reservation persisted", errors.New("no rows"), infra.KindNotFound)
	}
	return f.res, nil
}

func (f *fakeStore) set(res *reservation.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.res = res
}

func (f *fakeStore) take() *reservation.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.res
	f.res = nil
	return res
}

type fakeReleaser struct {
	mu    sync.Mutex
	store *fakeStore
	err   error
	calls int
}

func (f *fakeReleaser) ReleaseExpired(_ context.Context) (*reservation.Reservation, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	res := f.store.take()
	if res == nil {
		return nil, commands.ErrNoActiveReservation
	}
	return res, nil
}

func (f *fakeReleaser) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDisplay struct {
	mu    sync.Mutex
	edits []string
	pins  int
}

func (f *fakeDisplay) EditMessage(_ context.Context, _ reservation.DisplayTarget, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeDisplay) PinMessage(_ context.Context, _ reservation.DisplayTarget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pins++
	return nil
}

func (f *fakeDisplay) editTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.edits...)
}

func (f *fakeDisplay) pinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pins
}

type countdownFixture struct {
	store     *fakeStore
	releaser  *fakeReleaser
	display   *fakeDisplay
	clock     *clock.MockClock
	scheduler *worker.CountdownScheduler
}

func newCountdownFixture(t *testing.T) *countdownFixture {
	t.Helper()
	store := &fakeStore{}
	releaser := &fakeReleaser{store: store}
	display := &fakeDisplay{}
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	scheduler := worker.NewCountdownScheduler(store, releaser, display, clk, tickInterval)
	t.Cleanup(scheduler.Halt)
	return &countdownFixture{
		store:     store,
		releaser:  releaser,
		display:   display,
		clock:     clk,
		scheduler: scheduler,
	}
}

func activeReservation(f *countdownFixture, holdFor time.Duration) *reservation.Reservation {
	b := builder.NewReservationBuilder()
	b.Now = f.clock.Now()
	b.HoldFor = holdFor
	return b.BuildReconstructed()
}

func hasEdit(f *fakeDisplay, text string) func() bool {
	return func() bool {
		for _, e := range f.editTexts() {
			if e == text {
				return true
			}
		}
		return false
	}
}

func TestCountdownRendersRemaining(t *testing.T) {
	f := newCountdownFixture(t)
	res := activeReservation(f, time.Minute)
	f.store.set(res)

	f.scheduler.Launch(res)

	require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)
	assert.Equal(t, 1, f.display.pinCount())
	assert.Zero(t, f.releaser.callCount())
}

func TestCountdownReleasesExactlyOnce(t *testing.T) {
	f := newCountdownFixture(t)
	res := activeReservation(f, time.Minute)
	f.store.set(res)

	f.scheduler.Launch(res)
	require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

	f.clock.Add(2 * time.Minute)

	require.Eventually(t, func() bool {
		return f.releaser.callCount() == 1
	}, time.Second, tickInterval)
	require.Eventually(t, hasEdit(f.display, "🧳 The suitcase is available!"), time.Second, tickInterval)

	// The loop is terminal after a successful release; no further transitions.
	assert.Never(t, func() bool {
		return f.releaser.callCount() > 1
	}, 100*time.Millisecond, tickInterval)
	assert.Nil(t, f.store.take())
}

func TestCountdownRetriesFailedRelease(t *testing.T) {
	f := newCountdownFixture(t)
	res := activeReservation(f, time.Minute)
	f.store.set(res)
	f.releaser.err = errors.New("connection reset")
	f.clock.Add(2 * time.Minute)

	f.scheduler.Launch(res)

	require.Eventually(t, func() bool {
		return f.releaser.callCount() >= 2
	}, time.Second, tickInterval)

	f.releaser.mu.Lock()
	f.releaser.err = nil
	f.releaser.mu.Unlock()

	require.Eventually(t, func() bool {
		_, err := f.store.Find(context.Background())
		return infra.IsKind(err, infra.KindNotFound)
	}, time.Second, tickInterval)
}

func TestCountdownStopsWhenRecordVanishes(t *testing.T) {
	f := newCountdownFixture(t)
	res := activeReservation(f, time.Minute)
	f.store.set(res)

	f.scheduler.Launch(res)
	require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

	// A cancel deletes the record out from under the loop; the loop must stop
	// without firing any release.
	f.store.set(nil)

	assert.Never(t, func() bool {
		return f.releaser.callCount() > 0
	}, 100*time.Millisecond, tickInterval)
}

func TestCountdownIgnoresForeignReservation(t *testing.T) {
	f := newCountdownFixture(t)
	first := activeReservation(f, time.Minute)
	f.store.set(first)

	f.scheduler.Launch(first)
	require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

	second := activeReservation(f, 2*time.Minute)
	f.store.set(second)
	f.scheduler.Launch(second)

	require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 02:00"), time.Second, tickInterval)
	assert.Zero(t, f.releaser.callCount())
}

func TestResume(t *testing.T) {
	t.Run("restarts the countdown from persisted state", func(t *testing.T) {
		f := newCountdownFixture(t)
		res := activeReservation(f, 10*time.Minute)
		f.store.set(res)

		require.NoError(t, f.scheduler.Resume(context.Background()))

		require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 10:00"), time.Second, tickInterval)
		assert.Equal(t, 1, f.display.pinCount())
	})

	t.Run("releases a reservation that expired while the process was down", func(t *testing.T) {
		f := newCountdownFixture(t)
		res := activeReservation(f, time.Minute)
		f.store.set(res)
		f.clock.Add(time.Hour)

		require.NoError(t, f.scheduler.Resume(context.Background()))

		require.Eventually(t, func() bool {
			return f.releaser.callCount() == 1
		}, time.Second, tickInterval)
		require.Eventually(t, hasEdit(f.display, "🧳 The suitcase is available!"), time.Second, tickInterval)
	})

	t.Run("empty store starts nothing", func(t *testing.T) {
		f := newCountdownFixture(t)

		require.NoError(t, f.scheduler.Resume(context.Background()))

		assert.Never(t, func() bool {
			return f.display.pinCount() > 0
		}, 100*time.Millisecond, tickInterval)
	})
}

func TestHaltIf(t *testing.T) {
	t.Run("stops the loop it names", func(t *testing.T) {
		f := newCountdownFixture(t)
		res := activeReservation(f, time.Minute)
		f.store.set(res)

		f.scheduler.Launch(res)
		require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

		f.scheduler.HaltIf(res.UID())

		before := len(f.display.editTexts())
		assert.Never(t, func() bool {
			return len(f.display.editTexts()) > before
		}, 100*time.Millisecond, tickInterval)
	})

	t.Run("cancel racing a fresh open leaves the new loop running", func(t *testing.T) {
		f := newCountdownFixture(t)
		cancelled := activeReservation(f, time.Minute)
		f.store.set(cancelled)
		f.scheduler.Launch(cancelled)
		require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

		// A new open claims the freed row and launches its loop before the
		// cancel gets to signal the scheduler.
		next := activeReservation(f, 2*time.Minute)
		f.store.set(next)
		f.scheduler.Launch(next)
		f.scheduler.HaltIf(cancelled.UID())

		require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 02:00"), time.Second, tickInterval)

		// The surviving loop still owns the expiry transition.
		f.clock.Add(3 * time.Minute)
		require.Eventually(t, func() bool {
			return f.releaser.callCount() == 1
		}, time.Second, tickInterval)
		require.Eventually(t, hasEdit(f.display, "🧳 The suitcase is available!"), time.Second, tickInterval)
	})

	t.Run("no-op with no running loop", func(t *testing.T) {
		f := newCountdownFixture(t)
		f.scheduler.HaltIf(uuid.New())
	})
}

func TestHalt(t *testing.T) {
	t.Run("safe with no running loop", func(t *testing.T) {
		f := newCountdownFixture(t)
		f.scheduler.Halt()
		f.scheduler.Halt()
	})

	t.Run("stops the running loop", func(t *testing.T) {
		f := newCountdownFixture(t)
		res := activeReservation(f, time.Minute)
		f.store.set(res)

		f.scheduler.Launch(res)
		require.Eventually(t, hasEdit(f.display, "⏳ Time remaining: 01:00"), time.Second, tickInterval)

		f.scheduler.Halt()

		before := len(f.display.editTexts())
		assert.Never(t, func() bool {
			return len(f.display.editTexts()) > before
		}, 100*time.Millisecond, tickInterval)
	})
}
