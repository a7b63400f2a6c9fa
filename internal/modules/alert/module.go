package alert

import (
	"go.uber.org/fx"

	"wunder_bot/internal/modules/alert/service"
	"wunder_bot/internal/modules/config"
	"wunder_bot/pkg/logger"
)

// NewNotifier: Telegram при наличии токена, иначе stdout.
func NewNotifier(cfg *config.Config) service.Notifier {
	if cfg.Telegram.Token == "" {
		return service.NewStdout()
	}
	tg, err := service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		logger.Warn("telegram init failed, mirroring to stdout: %v", err)
		return service.NewStdout()
	}
	return tg
}

func NewSink(cfg *config.Config, n service.Notifier) service.Sink {
	if cfg.Webhook.URL == "" {
		logger.Warn("webhook url is empty, every alert will fail delivery")
	}
	return service.NewMirrored(service.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Timeout), n)
}

func Module() fx.Option {
	return fx.Module("alert",
		fx.Provide(
			NewNotifier,
			NewSink,
		),
	)
}
