package service

import (
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wunder_bot/pkg/logger"
)

// Telegram: пассивный нотифайер в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

// NewTelegramWithEndpoint is NewTelegram against a custom Bot API endpoint.
func NewTelegramWithEndpoint(token, endpoint string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("telegram send: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout: заглушка, всё пишет в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("%s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { logger.Info(format, args...) }
