package components

import (
	"context"

	"suitcase-timer/internal/notifier"
	"suitcase-timer/internal/pkg/clock"
	"suitcase-timer/internal/pkg/config"
	"suitcase-timer/internal/usecase/commands"
	"suitcase-timer/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewNotifier,
		NewCountdownScheduler,
		fx.Annotate(
			func(s *worker.CountdownScheduler) *worker.CountdownScheduler { return s },
			fx.As(new(commands.Scheduler)),
		),
	),
	fx.Invoke(registerSchedulerLifecycle),
)

func NewNotifier(sender notifier.DirectSender, recipients notifier.RecipientSource, cfg config.Config) commands.Notifier {
	return notifier.NewNotifier(sender, recipients, cfg.Timer.Duration)
}

func NewCountdownScheduler(
	reader worker.ReservationReader,
	releaser commands.ReservationReleaser,
	display worker.Display,
	clk clock.Clock,
	cfg config.Config,
) *worker.CountdownScheduler {
	return worker.NewCountdownScheduler(reader, releaser, display, clk, cfg.Timer.TickInterval)
}

// registerSchedulerLifecycle resumes a persisted countdown on startup and
// stops the loop cleanly on shutdown.
func registerSchedulerLifecycle(lc fx.Lifecycle, scheduler *worker.CountdownScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Resume(ctx)
		},
		OnStop: func(_ context.Context) error {
			scheduler.Halt()
			return nil
		},
	})
}
