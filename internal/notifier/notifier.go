package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"suitcase-timer/internal/domain/reservation"
)

// DirectSender delivers a point-to-point chat message.
type DirectSender interface {
	SendDirect(ctx context.Context, userID int64, text string) error
}

// RecipientSource lists everyone registered for notifications.
type RecipientSource interface {
	List(ctx context.Context) ([]int64, error)
}

// Notifier fans out reservation transitions to registered recipients. Every
// delivery is fire-and-forget: a failure for one recipient is logged and the
// rest still receive theirs, and no error ever reaches the state machine.
type Notifier struct {
	sender       DirectSender
	recipients   RecipientSource
	holdDuration time.Duration
}

func NewNotifier(sender DirectSender, recipients RecipientSource, holdDuration time.Duration) *Notifier {
	return &Notifier{
		sender:       sender,
		recipients:   recipients,
		holdDuration: holdDuration,
	}
}

func (n *Notifier) NotifyCreated(res *reservation.Reservation) {
	text := fmt.Sprintf(
		"🧳 %s has just opened the suitcase. It will be available in %d minutes.",
		res.OwnerName(),
		int(n.holdDuration.Minutes()),
	)
	go n.fanOut(res.OwnerID(), text)
}

func (n *Notifier) NotifyReleased(res *reservation.Reservation) {
	// The owner already sees the final in-place render, so they are skipped
	// here as well.
	go n.fanOut(res.OwnerID(), "🧳 The suitcase is now available!")
}

func (n *Notifier) fanOut(excludeUserID int64, text string) {
	ctx := context.Background()

	ids, err := n.recipients.List(ctx)
	if err != nil {
		slog.Error("notification fan-out could not list recipients", "error", err)
		return
	}

	delivered := 0
	for _, id := range ids {
		if id == excludeUserID {
			continue
		}
		if err := n.sender.SendDirect(ctx, id, text); err != nil {
			slog.Warn("notification delivery failed", "user_id", id, "error", err)
			continue
		}
		delivered++
	}

	slog.Debug("notification fan-out complete", "delivered", delivered, "recipients", len(ids))
}
