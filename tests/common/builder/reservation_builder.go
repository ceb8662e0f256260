//go:build unit || e2e

package builder

import (
	"time"

	domres "suitcase-timer/internal/domain/reservation"
	reqdto "suitcase-timer/internal/handler/dto/request"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	OwnerID   int64
	OwnerName string
	ChatID    int64
	MessageID int64
	HoldFor   time.Duration
	Now       time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		OwnerID:   42,
		OwnerName: "Alice",
		ChatID:    -1001234567890,
		MessageID: 777,
		HoldFor:   22 * time.Minute,
		Now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ReservationBuilder) BuildDomain() (*domres.Reservation, error) {
	target, err := domres.NewDisplayTarget(b.ChatID, b.MessageID)
	if err != nil {
		return nil, err
	}
	return domres.NewReservation(clock.NewMockClock(b.Now), b.OwnerID, b.OwnerName, target, b.HoldFor)
}

// BuildReconstructed skips validation, the way a row read back from the store
// does.
func (b *ReservationBuilder) BuildReconstructed() *domres.Reservation {
	target, _ := domres.NewDisplayTarget(b.ChatID, b.MessageID)
	return domres.ReconstructReservation(uuid.New(), b.OwnerID, b.OwnerName, target, b.Now.Add(b.HoldFor), b.Now)
}

func (b *ReservationBuilder) BuildOpenParams() commands.OpenParams {
	return commands.OpenParams{
		UserID:    b.OwnerID,
		UserName:  b.OwnerName,
		ChatID:    b.ChatID,
		MessageID: b.MessageID,
	}
}

func (b *ReservationBuilder) BuildOpenRequestDTO() reqdto.OpenReservationRequest {
	return reqdto.OpenReservationRequest{
		UserID:    b.OwnerID,
		UserName:  b.OwnerName,
		ChatID:    b.ChatID,
		MessageID: b.MessageID,
	}
}
