package components

import (
	"suitcase-timer/internal/infra/repository"
	"suitcase-timer/internal/notifier"
	"suitcase-timer/internal/usecase/commands"
	"suitcase-timer/internal/usecase/queries"
	"suitcase-timer/internal/worker"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// The single-record store backs the write side, the read side and
		// the countdown loop's per-tick re-read.
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
			fx.As(new(queries.ReservationReader)),
			fx.As(new(worker.ReservationReader)),
		),
		fx.Annotate(
			repository.NewRecipientRepository,
			fx.As(new(commands.RecipientRepository)),
			fx.As(new(notifier.RecipientSource)),
		),
	),
)
