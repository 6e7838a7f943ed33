package services

import (
	"fmt"

	"spinwheel-backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier announces new withdrawal requests to the review channel. Calls
// are fire-and-forget; a failed notification never fails the request.
type Notifier interface {
	NotifyWithdrawal(w *models.WithdrawalRequest)
}

// TelegramNotifier posts to the admin review channel through the bot API.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	channel string
	log     zerolog.Logger
}

func NewTelegramNotifier(token, channel string, log zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %v", err)
	}

	log.Info().Str("bot", bot.Self.UserName).Str("channel", channel).Msg("telegram notifier ready")

	return &TelegramNotifier{bot: bot, channel: channel, log: log}, nil
}

func (n *TelegramNotifier) NotifyWithdrawal(w *models.WithdrawalRequest) {
	text := fmt.Sprintf("New withdrawal request:\nAmount: %g %s\nAddress: %s", w.Amount, w.Asset, w.Address)

	msg := tgbotapi.NewMessageToChannel(n.channel, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error().Err(err).Str("request_id", w.ID).Msg("failed to notify withdrawal channel")
	}
}

// NopNotifier is used when no bot token is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyWithdrawal(*models.WithdrawalRequest) {}
