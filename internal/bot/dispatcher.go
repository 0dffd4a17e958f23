// Package bot turns inbound Telegram updates into replies and watchlist
// changes, and runs the long-poll loop that feeds them in.
package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donaldgifford/apple-stock-notifier/internal/apple"
	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/notify"
	"github.com/donaldgifford/apple-stock-notifier/internal/state"
	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
)

// Dispatcher handles one inbound update at a time.
type Dispatcher struct {
	state    *state.State
	prober   apple.Prober
	sender   telegram.Sender
	password string
	log      *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// NewDispatcher creates a Dispatcher. password gates every chat until a user
// sends it once.
func NewDispatcher(
	st *state.State,
	p apple.Prober,
	s telegram.Sender,
	password string,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		state:    st,
		prober:   p,
		sender:   s,
		password: password,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one update. Updates without a chat or sender are ignored.
// The returned error reports state failures the user has already been told
// about; send failures are only logged.
func (d *Dispatcher) Handle(ctx context.Context, in telegram.Inbound) error {
	if in.ChatID == 0 || in.UserID == 0 {
		metrics.UpdatesTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	authorized, err := d.state.IsAuthorized(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("checking authorization: %w", err)
	}

	if in.IsCallback() {
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		if !authorized {
			d.send(ctx, telegram.Message{ChatID: in.ChatID, Text: textPasswordPrompt})
			return nil
		}
		return d.handleCallback(ctx, in)
	}

	metrics.UpdatesTotal.WithLabelValues("message").Inc()
	if !authorized {
		return d.handlePassword(ctx, in)
	}
	return d.handleText(ctx, in)
}

func (d *Dispatcher) handlePassword(ctx context.Context, in telegram.Inbound) error {
	if subtle.ConstantTimeCompare([]byte(in.Text), []byte(d.password)) != 1 {
		metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		d.send(ctx, telegram.Message{ChatID: in.ChatID, Text: textPasswordPrompt})
		return nil
	}

	metrics.AuthAttemptsTotal.WithLabelValues("granted").Inc()
	if err := d.state.Authorize(ctx, in.UserID); err != nil {
		d.send(ctx, telegram.Message{ChatID: in.ChatID, Text: textNotSaved})
		return fmt.Errorf("authorizing user %d: %w", in.UserID, err)
	}

	d.send(ctx, telegram.Message{ChatID: in.ChatID, Text: textAccessGranted})
	d.send(ctx, mainMenu(in.ChatID))
	return nil
}

func (d *Dispatcher) handleText(ctx context.Context, in telegram.Inbound) error {
	switch strings.TrimSpace(in.Text) {
	case CmdStart:
		d.send(ctx, mainMenu(in.ChatID))
	case CmdWatch:
		d.send(ctx, productList(in.ChatID))
	case CmdWatchlist:
		return d.showWatchlist(ctx, in.ChatID)
	case CmdStatus:
		return d.checkStatus(ctx, in.ChatID)
	case CmdTestAlert, CmdTest:
		return d.selfTest(ctx, in.ChatID)
	default:
		d.log.Debug("ignoring unrecognized text", "chat_id", in.ChatID)
	}
	return nil
}

func (d *Dispatcher) handleCallback(ctx context.Context, in telegram.Inbound) error {
	cb, err := ParseCallback(in.CallbackData)
	if err != nil {
		d.log.Debug("ignoring callback", "chat_id", in.ChatID, "error", err)
		return nil
	}

	switch c := cb.(type) {
	case SelectProduct:
		p, err := d.state.SelectProduct(ctx, in.ChatID, c.ProductID)
		if errors.Is(err, state.ErrUnknownProduct) {
			d.log.Debug("ignoring callback", "chat_id", in.ChatID, "error", err)
			return nil
		}
		if err != nil {
			return err
		}
		d.send(ctx, storeList(in.ChatID, p))
	case SelectStore:
		return d.selectStore(ctx, in.ChatID, c)
	case DeleteWatch:
		return d.deleteWatch(ctx, in, c.Key)
	}
	return nil
}

func (d *Dispatcher) selectStore(ctx context.Context, chatID int64, c SelectStore) error {
	entry, err := d.state.CompleteSelection(ctx, chatID, c.ProductID, c.Store)
	switch {
	case errors.Is(err, state.ErrUnknownProduct), errors.Is(err, state.ErrUnknownStore):
		d.log.Debug("ignoring callback", "chat_id", chatID, "error", err)
		return nil
	case err != nil:
		d.send(ctx, telegram.Message{ChatID: chatID, Text: textNotSaved})
		return fmt.Errorf("adding watch: %w", err)
	}

	stores := d.prober.Probe(ctx, entry.PartNumber, entry.Location())
	d.send(ctx, telegram.Message{
		ChatID: chatID,
		Text:   watchAdded(entry.Key, availabilityLine(entry.Key, stores)),
	})
	d.send(ctx, mainMenu(chatID))
	return nil
}

func (d *Dispatcher) deleteWatch(ctx context.Context, in telegram.Inbound, key string) error {
	found, err := d.state.DeleteWatch(ctx, key)
	if err != nil {
		d.send(ctx, telegram.Message{ChatID: in.ChatID, Text: textNotSaved})
		return fmt.Errorf("deleting watch: %w", err)
	}

	entries, err := d.state.Watches(ctx)
	if err != nil {
		return err
	}

	view := watchlistView(in.ChatID, entries)
	if found {
		view.Text = "🗑️ Removed: " + key + "\n\n" + view.Text
	}
	view.EditMessageID = in.MessageID
	d.send(ctx, view)
	return nil
}

func (d *Dispatcher) showWatchlist(ctx context.Context, chatID int64) error {
	entries, err := d.state.Watches(ctx)
	if err != nil {
		return err
	}
	d.send(ctx, watchlistView(chatID, entries))
	return nil
}

// checkStatus probes every watch on demand and replies with one report.
func (d *Dispatcher) checkStatus(ctx context.Context, chatID int64) error {
	entries, err := d.state.Watches(ctx)
	if err != nil {
		return err
	}

	d.send(ctx, telegram.Message{ChatID: chatID, Action: telegram.ChatTyping})

	parts := []string{textStatusHeader}
	if len(entries) == 0 {
		parts = append(parts, textEmptyWatchlist)
	}
	for _, e := range entries {
		stores := d.prober.Probe(ctx, e.PartNumber, e.Location())
		parts = append(parts, statusEntry(e.Key, stores))
	}

	d.send(ctx, telegram.Message{ChatID: chatID, Text: strings.Join(parts, "\n\n")})
	return nil
}

// selfTest seeds the sentinel watch and sends the alert it produces, so a
// user can see what a real in-stock alert looks like.
func (d *Dispatcher) selfTest(ctx context.Context, chatID int64) error {
	entry := catalog.TestEntry()
	if err := d.state.AddWatch(ctx, entry); err != nil {
		d.send(ctx, telegram.Message{ChatID: chatID, Text: textNotSaved})
		return fmt.Errorf("adding test watch: %w", err)
	}

	d.send(ctx, telegram.Message{
		ChatID: chatID,
		Text:   watchAdded(entry.Key, "🧪 Sending a sample alert."),
	})

	stores := d.prober.Probe(ctx, entry.PartNumber, entry.Location())
	if len(stores) == 0 {
		return nil
	}
	alert := notify.StockAlert{
		Kind:       notify.InStock,
		Key:        entry.Key,
		PartNumber: entry.PartNumber,
		Stores:     stores[:1],
		DetectedAt: time.Now(),
	}
	d.send(ctx, telegram.Message{ChatID: chatID, Text: notify.FormatAlert(&alert)})
	return nil
}

func (d *Dispatcher) send(ctx context.Context, m telegram.Message) {
	if err := d.sender.Send(ctx, m); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues("telegram").Inc()
		d.log.Warn("telegram send failed", "chat_id", m.ChatID, "error", err)
	}
}
