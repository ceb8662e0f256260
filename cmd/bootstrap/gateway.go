package bootstrap

import (
	"suitcase-timer/internal/infra/telegram"
	"suitcase-timer/internal/notifier"
	"suitcase-timer/internal/pkg/config"
	"suitcase-timer/internal/worker"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewChatGateway,
			fx.As(new(notifier.DirectSender)),
			fx.As(new(worker.Display)),
		),
	),
)

func NewChatGateway(cfg config.Config) (*telegram.Gateway, error) {
	return telegram.NewGateway(cfg.Telegram)
}
