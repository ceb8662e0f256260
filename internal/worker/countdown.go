package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/infra"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/usecase/commands"

	"github.com/google/uuid"
)

// ReservationReader re-reads the persisted record; the loop never trusts a
// captured copy across ticks.
type ReservationReader interface {
	Find(ctx context.Context) (*reservation.Reservation, error)
}

// Releaser performs the expiry transition (delete + released fan-out).
type Releaser interface {
	ReleaseExpired(ctx context.Context) (*reservation.Reservation, error)
}

// Display renders the countdown into the chat. All calls are best-effort.
type Display interface {
	EditMessage(ctx context.Context, target reservation.DisplayTarget, text string) error
	PinMessage(ctx context.Context, target reservation.DisplayTarget) error
}

// CountdownScheduler runs one ticking loop per active reservation. Each loop
// is identified by the reservation uid and owns a stop/done channel pair, so
// cancellation is an explicit signal rather than a shared global handle.
type CountdownScheduler struct {
	reader   ReservationReader
	releaser Releaser
	display  Display
	clock    clock.Clock
	interval time.Duration

	mu      sync.Mutex
	current *loopHandle
}

type loopHandle struct {
	uid    uuid.UUID
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewCountdownScheduler(
	reader ReservationReader,
	releaser Releaser,
	display Display,
	clk clock.Clock,
	interval time.Duration,
) *CountdownScheduler {
	return &CountdownScheduler{
		reader:   reader,
		releaser: releaser,
		display:  display,
		clock:    clk,
		interval: interval,
	}
}

// Resume restarts the countdown from persisted state after a process
// restart. Absence of a record is not an error; an already expired record is
// released on the loop's first pass.
func (s *CountdownScheduler) Resume(ctx context.Context) error {
	res, err := s.reader.Find(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}

	slog.Info("resuming countdown from persisted reservation",
		"uid", res.UID(),
		"owner_id", res.OwnerID(),
		"end_time", res.EndTime(),
	)
	s.Launch(res)
	return nil
}

// Launch starts the countdown loop for res, replacing any loop still
// running. The replaced loop is signalled and awaited outside the lock.
func (s *CountdownScheduler) Launch(res *reservation.Reservation) {
	l := &loopHandle{
		uid:    res.UID(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	s.mu.Lock()
	old := s.current
	s.current = l
	s.mu.Unlock()

	if old != nil {
		close(old.stopCh)
		<-old.doneCh
	}

	go s.run(res, l)
}

// Halt stops the running loop, if any, and waits for it to exit. Safe to
// call when no loop is running.
func (s *CountdownScheduler) Halt() {
	s.mu.Lock()
	l := s.current
	s.current = nil
	s.mu.Unlock()

	if l == nil {
		return
	}
	close(l.stopCh)
	<-l.doneCh
}

// HaltIf stops the running loop only when it belongs to uid. A cancel that
// races a fresh claim must not take down the new reservation's loop, so the
// stop signal carries the same identity the delete did.
func (s *CountdownScheduler) HaltIf(uid uuid.UUID) {
	s.mu.Lock()
	l := s.current
	if l == nil || l.uid != uid {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.mu.Unlock()

	close(l.stopCh)
	<-l.doneCh
}

func (s *CountdownScheduler) run(res *reservation.Reservation, l *loopHandle) {
	defer s.finish(l)

	ctx := context.Background()

	// Re-establish the pin and render immediately so a restart is invisible
	// to users except for the message content.
	if err := s.display.PinMessage(ctx, res.Target()); err != nil {
		slog.Debug("failed to pin countdown message", "error", err)
	}
	if s.tick(ctx, l.uid) {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if s.tick(ctx, l.uid) {
				return
			}
		}
	}
}

// tick re-reads the store and advances the state machine. It returns true
// when the loop has reached a terminal state.
func (s *CountdownScheduler) tick(ctx context.Context, uid uuid.UUID) bool {
	res, err := s.reader.Find(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Cancelled externally; the engine already handled messaging.
			return true
		}
		slog.Error("countdown tick failed to read store", "error", err)
		return false
	}

	if res.UID() != uid {
		// Another reservation took over the record; its own loop renders it.
		return true
	}

	remaining := res.RemainingAt(s.clock.Now())
	if remaining > 0 {
		if err := s.display.EditMessage(ctx, res.Target(), reservation.FormatRemaining(remaining)); err != nil {
			slog.Warn("failed to render countdown", "error", err)
		}
		return false
	}

	// Expired: final render first, then the release transition. A render
	// failure must never block the release.
	if err := s.display.EditMessage(ctx, res.Target(), reservation.AvailableText()); err != nil {
		slog.Warn("failed to render final availability message", "error", err)
	}

	if _, err := s.releaser.ReleaseExpired(ctx); err != nil {
		if errors.Is(err, commands.ErrNoActiveReservation) {
			// Someone else completed the transition between our read and the
			// delete; nothing left to do.
			return true
		}
		slog.Error("failed to release expired reservation, will retry next tick", "error", err)
		return false
	}

	slog.Info("reservation expired and released", "uid", uid)
	return true
}

func (s *CountdownScheduler) finish(l *loopHandle) {
	s.mu.Lock()
	if s.current == l {
		s.current = nil
	}
	s.mu.Unlock()
	close(l.doneCh)
}
