package queries

import (
	"context"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/infra"
	"suitcase-timer/internal/pkg/clock"
)

// StatusView is the read model for the current checkout. Active is false both
// when no record exists and when the persisted record has already expired;
// the suitcase is available in either case.
type StatusView struct {
	Active    bool          `json:"active"`
	Remaining time.Duration `json:"-"`
	Countdown string        `json:"countdown,omitempty"`
	OwnerID   int64         `json:"owner_id,omitempty"`
	OwnerName string        `json:"owner_name,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
}

type ReservationReader interface {
	Find(ctx context.Context) (*reservation.Reservation, error)
}

type ReservationQueries interface {
	Status(ctx context.Context) (*StatusView, error)
}

type reservationQueriesImpl struct {
	repo  ReservationReader
	clock clock.Clock
}

func NewReservationQueries(repo ReservationReader, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, clock: clk}
}

func (q *reservationQueriesImpl) Status(ctx context.Context) (*StatusView, error) {
	res, err := q.repo.Find(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &StatusView{Active: false, Countdown: reservation.AvailableText()}, nil
		}
		return nil, err
	}

	now := q.clock.Now()
	remaining := res.RemainingAt(now)
	if remaining == 0 {
		return &StatusView{Active: false, Countdown: reservation.AvailableText()}, nil
	}

	end := res.EndTime()
	return &StatusView{
		Active:    true,
		Remaining: remaining,
		Countdown: reservation.FormatRemaining(remaining),
		OwnerID:   res.OwnerID(),
		OwnerName: res.OwnerName(),
		EndTime:   &end,
	}, nil
}
