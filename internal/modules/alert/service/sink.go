package service

import (
	"context"
	"errors"
	"fmt"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

var (
	ErrNoWebhook   = errors.New("webhook url is not configured")
	ErrNoAlertCode = errors.New("alert code is empty")
)

// Alert: то, что уходит во внешний сервис. Code непрозрачен для движка.
type Alert struct {
	Code      string
	Symbol    string
	Timeframe string
	Kind      models.SignalKind
	Price     float64
	Extra     map[string]string
}

func (a Alert) String() string {
	return fmt.Sprintf("%s@%s %s @ %.4f", a.Symbol, a.Timeframe, a.Kind, a.Price)
}

// Sink delivers an alert; nil means the receiver accepted it.
type Sink interface {
	Send(ctx context.Context, a Alert) error
}

// Notifier: человекочитаемое зеркало (Telegram или stdout).
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Mirrored дублирует успешно доставленные алерты в Notifier.
// Ошибки зеркала не влияют на результат.
type Mirrored struct {
	primary  Sink
	notifier Notifier
}

func NewMirrored(primary Sink, n Notifier) *Mirrored {
	return &Mirrored{primary: primary, notifier: n}
}

func (m *Mirrored) Send(ctx context.Context, a Alert) error {
	if err := m.primary.Send(ctx, a); err != nil {
		return err
	}
	if m.notifier != nil {
		m.notifier.Sendf("%s %s\nalert: %s", kindIcon(a.Kind), a, a.Code)
	}
	logger.Info("alert sent %s code=%s", a, a.Code)
	return nil
}

func kindIcon(k models.SignalKind) string {
	switch k {
	case models.SignalEnterLong:
		return "🟢"
	case models.SignalEnterShort:
		return "🔴"
	default:
		return "⚪️"
	}
}
