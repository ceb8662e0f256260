package components

import (
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/pkg/config"
	"suitcase-timer/internal/usecase/commands"
	"suitcase-timer/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewReservationCommands,
		commands.NewReservationReleaser,
		queries.NewReservationQueries,
	),
)

func NewReservationCommands(
	reservationRepo commands.ReservationRepository,
	recipientRepo commands.RecipientRepository,
	scheduler commands.Scheduler,
	reservationNotifier commands.Notifier,
	clk clock.Clock,
	cfg config.Config,
) commands.ReservationCommands {
	return commands.NewReservationCommands(
		reservationRepo,
		recipientRepo,
		scheduler,
		reservationNotifier,
		clk,
		cfg.Timer.Duration,
	)
}
