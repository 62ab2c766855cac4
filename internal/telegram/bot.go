package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Bot runs the Telegram long-polling loop, feeding incoming messages to the
// Registrar, and doubles as the outbound notification channel.
type Bot struct {
	api       *tgbotapi.BotAPI
	registrar *Registrar
	log       zerolog.Logger
}

// NewBot creates a Bot from a bot token.
func NewBot(token string, registrar *Registrar, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:       api,
		registrar: registrar,
		log:       log.With().Str("component", "telegram_bot").Logger(),
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.log.Info().Str("username", b.api.Self.UserName).Msg("Bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info().Msg("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleUpdate(ctx, update.Message)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, m *tgbotapi.Message) {
	reply := b.registrar.HandleMessage(ctx, m.Chat.ID, m.Text)

	msg := tgbotapi.NewMessage(m.Chat.ID, reply.Text)
	switch {
	case len(reply.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Keyboard))
		for _, label := range reply.Keyboard {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.OneTimeKeyboard = true
		msg.ReplyMarkup = kb
	case reply.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", m.Chat.ID).Msg("Reply send failed")
	}
}

// Send delivers one notification to a chat. It reports success or failure
// and never blocks delivery to other recipients.
func (b *Bot) Send(ctx context.Context, chatID string, text string) bool {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		b.log.Error().Str("chat_id", chatID).Msg("Malformed chat ID")
		return false
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", id).Msg("Notification send failed")
		return false
	}
	return true
}
