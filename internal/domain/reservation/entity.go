package reservation

import (
	"errors"
	"time"

	"suitcase-timer/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidOwner         = errors.New("owner id must be positive")
	ErrEmptyOwnerName       = errors.New("owner name must not be empty")
	ErrInvalidDuration      = errors.New("hold duration must be positive")
	ErrInvalidDisplayTarget = errors.New("invalid display target")
)

// Reservation is the single checkout of the shared suitcase. All fields are
// fixed at creation; the record is destroyed (hard delete) on cancel or expiry.
type Reservation struct {
	uid       uuid.UUID
	ownerID   int64
	ownerName string
	target    DisplayTarget
	endTime   time.Time
	createdAt time.Time
}

func NewReservation(
	clk clock.Clock,
	ownerID int64,
	ownerName string,
	target DisplayTarget,
	holdFor time.Duration,
) (*Reservation, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidOwner
	}
	if ownerName == "" {
		return nil, ErrEmptyOwnerName
	}
	if target.IsZero() {
		return nil, ErrInvalidDisplayTarget
	}
	if holdFor <= 0 {
		return nil, ErrInvalidDuration
	}

	now := clk.Now()
	return &Reservation{
		uid:       uuid.New(),
		ownerID:   ownerID,
		ownerName: ownerName,
		target:    target,
		endTime:   now.Add(holdFor),
		createdAt: now,
	}, nil
}

func ReconstructReservation(
	uid uuid.UUID,
	ownerID int64,
	ownerName string,
	target DisplayTarget,
	endTime, createdAt time.Time,
) *Reservation {
	return &Reservation{
		uid:       uid,
		ownerID:   ownerID,
		ownerName: ownerName,
		target:    target,
		endTime:   endTime,
		createdAt: createdAt,
	}
}

func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.ownerID == userID
}

func (r *Reservation) HasExpired(now time.Time) bool {
	return !now.Before(r.endTime)
}

// RemainingAt returns the time left until the suitcase is available,
// clamped at zero once the end time has passed.
func (r *Reservation) RemainingAt(now time.Time) time.Duration {
	remaining := r.endTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Reservation) UID() uuid.UUID        { return r.uid }
func (r *Reservation) OwnerID() int64        { return r.ownerID }
func (r *Reservation) OwnerName() string     { return r.ownerName }
func (r *Reservation) Target() DisplayTarget { return r.target }
func (r *Reservation) EndTime() time.Time    { return r.endTime }
func (r *Reservation) CreatedAt() time.Time  { return r.createdAt }
