package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
)

const channelTelegram = "telegram"

// Recipients lists the chats an alert is broadcast to.
type Recipients interface {
	AuthorizedUsers(ctx context.Context) ([]int64, error)
}

// TelegramBroadcaster implements Notifier by messaging every authorized user.
type TelegramBroadcaster struct {
	sender     telegram.Sender
	recipients Recipients
	log        *slog.Logger
}

// NewTelegramBroadcaster creates a TelegramBroadcaster.
func NewTelegramBroadcaster(s telegram.Sender, r Recipients, log *slog.Logger) *TelegramBroadcaster {
	return &TelegramBroadcaster{sender: s, recipients: r, log: log}
}

// SendAlert sends the alert to each recipient. A failed send is logged and
// counted and does not stop delivery to the rest.
func (t *TelegramBroadcaster) SendAlert(ctx context.Context, alert *StockAlert) error {
	ids, err := t.recipients.AuthorizedUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing alert recipients: %w", err)
	}

	text := FormatAlert(alert)

	var errs []error
	for _, id := range ids {
		if err := t.sender.Send(ctx, telegram.Message{ChatID: id, Text: text}); err != nil {
			metrics.NotificationFailuresTotal.WithLabelValues(channelTelegram).Inc()
			t.log.Warn("alert delivery failed",
				"chat_id", id,
				"watch", alert.Key.String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
			continue
		}
		metrics.AlertsSentTotal.WithLabelValues(channelTelegram).Inc()
	}

	return errors.Join(errs...)
}
