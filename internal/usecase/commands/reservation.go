package commands

import (
	"context"
	"log/slog"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/infra"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAlreadyActive       = errs.New("a reservation is already active")
	ErrNoActiveReservation = errs.New("no active reservation")
	ErrNotOwner            = errs.New("only the reservation owner may cancel")
	ErrDomainValidation    = errs.New("domain validation error")
	ErrStorageFailure      = errs.New("storage operation failed")
)

type OpenParams struct {
	UserID    int64
	UserName  string
	ChatID    int64
	MessageID int64
}

// ReservationRepository is the write side of the single-record store.
// Claim must be atomic: the existence check and the write happen as one
// statement so two concurrent opens can never both succeed.
type ReservationRepository interface {
	Claim(ctx context.Context, res *reservation.Reservation) (bool, error)
	Find(ctx context.Context) (*reservation.Reservation, error)
	Delete(ctx context.Context, uid uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (*reservation.Reservation, error)
}

type RecipientRepository interface {
	Add(ctx context.Context, userID int64) error
}

// Scheduler is the countdown loop owner. Launch starts a loop for the given
// reservation; HaltIf stops the running loop only when it still belongs to
// the given reservation.
type Scheduler interface {
	Launch(res *reservation.Reservation)
	HaltIf(uid uuid.UUID)
}

// Notifier fan-outs are best-effort and must never surface an error here.
type Notifier interface {
	NotifyCreated(res *reservation.Reservation)
	NotifyReleased(res *reservation.Reservation)
}

type ReservationCommands interface {
	Open(ctx context.Context, params OpenParams) (*reservation.Reservation, error)
	Cancel(ctx context.Context, userID int64) error
	Register(ctx context.Context, userID int64) error
}

// ReservationReleaser is the expiry side of the engine. It is separate from
// ReservationCommands because the countdown scheduler drives it, while the
// scheduler itself is a dependency of the foreground commands.
type ReservationReleaser interface {
	ReleaseExpired(ctx context.Context) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	reservationRepo ReservationRepository
	recipientRepo   RecipientRepository
	scheduler       Scheduler
	notifier        Notifier
	clock           clock.Clock
	holdDuration    time.Duration
}

func NewReservationCommands(
	reservationRepo ReservationRepository,
	recipientRepo RecipientRepository,
	scheduler Scheduler,
	notifier Notifier,
	clk clock.Clock,
	holdDuration time.Duration,
) ReservationCommands {
	return &reservationCommandsImpl{
		reservationRepo: reservationRepo,
		recipientRepo:   recipientRepo,
		scheduler:       scheduler,
		notifier:        notifier,
		clock:           clk,
		holdDuration:    holdDuration,
	}
}

func (c *reservationCommandsImpl) Open(ctx context.Context, params OpenParams) (*reservation.Reservation, error) {
	target, err := reservation.NewDisplayTarget(params.ChatID, params.MessageID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	res, err := reservation.NewReservation(c.clock, params.UserID, params.UserName, target, c.holdDuration)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// Anyone who touches the suitcase becomes a notification recipient.
	// Registration failure must not block the checkout itself.
	if regErr := c.recipientRepo.Add(ctx, params.UserID); regErr != nil {
		slog.Warn("failed to register recipient on open", "user_id", params.UserID, "error", regErr)
	}

	claimed, err := c.reservationRepo.Claim(ctx, res)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if !claimed {
		return nil, ErrAlreadyActive
	}

	c.scheduler.Launch(res)
	c.notifier.NotifyCreated(res)

	return res, nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, userID int64) error {
	res, err := c.reservationRepo.Find(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrNoActiveReservation
		}
		return errs.Mark(err, ErrStorageFailure)
	}

	if !res.IsOwnedBy(userID) {
		return ErrNotOwner
	}

	// Delete by loop identity so a cancel racing an expiry never removes a
	// reservation it did not look at.
	deleted, err := c.reservationRepo.Delete(ctx, res.UID())
	if err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	if !deleted {
		return ErrNoActiveReservation
	}

	// The stop signal carries the same identity as the delete. A fresh open
	// may already have claimed the freed row and launched its own loop; that
	// loop must keep running.
	c.scheduler.HaltIf(res.UID())
	return nil
}

func (c *reservationCommandsImpl) Register(ctx context.Context, userID int64) error {
	if err := c.recipientRepo.Add(ctx, userID); err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	return nil
}

type reservationReleaserImpl struct {
	reservationRepo ReservationRepository
	notifier        Notifier
	clock           clock.Clock
}

func NewReservationReleaser(
	reservationRepo ReservationRepository,
	notifier Notifier,
	clk clock.Clock,
) ReservationReleaser {
	return &reservationReleaserImpl{
		reservationRepo: reservationRepo,
		notifier:        notifier,
		clock:           clk,
	}
}

// ReleaseExpired performs the expiry transition: the record is removed only
// if its end time has passed, and the "released" fan-out fires exactly once,
// on the call that actually won the delete.
func (r *reservationReleaserImpl) ReleaseExpired(ctx context.Context) (*reservation.Reservation, error) {
	res, err := r.reservationRepo.DeleteExpired(ctx, r.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNoActiveReservation
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	r.notifier.NotifyReleased(res)
	return res, nil
}
