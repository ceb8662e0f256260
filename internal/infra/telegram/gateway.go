package telegram

import (
	"context"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/pkg/config"
	"suitcase-timer/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway adapts the Telegram Bot API to the chat ports used by the notifier
// and the countdown worker. Callers treat every method as best-effort.
type Gateway struct {
	bot *tgbotapi.BotAPI
}

func NewGateway(cfg config.TelegramConfig) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errs.Wrap(err, "failed to initialize telegram bot")
	}
	return &Gateway{bot: bot}, nil
}

func (g *Gateway) SendDirect(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, text)
	if _, err := g.bot.Send(msg); err != nil {
		return errs.Wrap(err, "failed to send direct message")
	}
	return nil
}

func (g *Gateway) EditMessage(ctx context.Context, target reservation.DisplayTarget, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(target.ChatID(), int(target.MessageID()), text)
	if _, err := g.bot.Send(edit); err != nil {
		return errs.Wrap(err, "failed to edit display message")
	}
	return nil
}

func (g *Gateway) PinMessage(ctx context.Context, target reservation.DisplayTarget) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pin := tgbotapi.PinChatMessageConfig{
		ChatID:              target.ChatID(),
		MessageID:           int(target.MessageID()),
		DisableNotification: true,
	}
	if _, err := g.bot.Request(pin); err != nil {
		return errs.Wrap(err, "failed to pin display message")
	}
	return nil
}
