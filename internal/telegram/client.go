// Package telegram wraps the Telegram Bot API client behind the small set of
// calls the bot makes: long-poll for updates, send or edit messages, send chat
// actions and acknowledge callback presses.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers outbound messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// API is the subset of the Bot API the update loop needs.
type API interface {
	Sender
	GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Inbound, error)
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Client implements API with go-telegram-bot-api.
type Client struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

type clientConfig struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithAPIEndpoint overrides the printf-style endpoint pattern
// ("https://api.telegram.org/bot%s/%s").
func WithAPIEndpoint(pattern string) Option {
	return func(c *clientConfig) {
		c.endpoint = pattern
	}
}

// WithHTTPClient overrides the HTTP client. Its timeout must exceed the
// long-poll timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.client = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.log = l
	}
}

// NewClient creates a Client and verifies the token with getMe.
func NewClient(token string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: 35 * time.Second},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, cfg.endpoint, cfg.client)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	cfg.log.Info("connected to telegram", "bot", bot.Self.UserName)
	return &Client{bot: bot, log: cfg.log}, nil
}

// Username returns the bot's username as reported by getMe.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Send implements Sender.
func (c *Client) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.Action != "" {
		if _, err := c.bot.Request(tgbotapi.NewChatAction(m.ChatID, m.Action)); err != nil {
			return c.failed("sendChatAction", m.ChatID, fmt.Errorf("sending chat action: %w", err))
		}
		return nil
	}

	if m.EditMessageID != 0 {
		if _, err := c.bot.Send(editConfig(m)); err != nil {
			return c.failed("editMessageText", m.ChatID, fmt.Errorf("editing message: %w", err))
		}
		return nil
	}

	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	if markup := replyMarkup(m.Keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := c.bot.Send(msg); err != nil {
		return c.failed("sendMessage", m.ChatID, fmt.Errorf("sending message: %w", err))
	}
	return nil
}

// GetUpdates long-polls for updates after offset. The underlying client has
// no context support, so a cancelled ctx returns immediately and the
// in-flight poll is abandoned.
func (c *Client) GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Inbound, error) {
	type result struct {
		updates []tgbotapi.Update
		err     error
	}
	ch := make(chan result, 1)

	go func() {
		u := tgbotapi.NewUpdate(offset)
		u.Timeout = int(timeout.Seconds())
		u.AllowedUpdates = []string{"message", "callback_query"}
		updates, err := c.bot.GetUpdates(u)
		ch <- result{updates: updates, err: err}
	}()

	select {
	case <-ctx.Done():
		c.log.Debug("abandoning in-flight getUpdates", "offset", offset)
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("getting updates: %w", r.err)
		}
		if len(r.updates) > 0 {
			c.log.Debug("received updates", "count", len(r.updates), "offset", offset)
		}
		out := make([]Inbound, 0, len(r.updates))
		for i := range r.updates {
			out = append(out, toInbound(&r.updates[i]))
		}
		return out, nil
	}
}

// failed logs a rejected Bot API call at debug level and returns err. Callers
// decide whether the failure is worth a warning.
func (c *Client) failed(method string, chatID int64, err error) error {
	c.log.Debug("telegram request failed", "method", method, "chat_id", chatID, "error", err)
	return err
}

// AnswerCallback acknowledges a callback press so the client stops its
// loading indicator.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answering callback: %w", err)
	}
	return nil
}

// toInbound flattens an update. Updates that are neither a message nor a
// callback, or lack a chat or sender, come back with only UpdateID set.
func toInbound(u *tgbotapi.Update) Inbound {
	in := Inbound{UpdateID: u.UpdateID}

	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		in.CallbackID = cq.ID
		in.CallbackData = cq.Data
		if cq.From != nil {
			in.UserID = cq.From.ID
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			in.ChatID = cq.Message.Chat.ID
			in.MessageID = cq.Message.MessageID
		}
	case u.Message != nil:
		m := u.Message
		in.Text = m.Text
		in.MessageID = m.MessageID
		if m.From != nil {
			in.UserID = m.From.ID
		}
		if m.Chat != nil {
			in.ChatID = m.Chat.ID
		}
	}

	return in
}

func editConfig(m Message) tgbotapi.EditMessageTextConfig {
	if m.Keyboard != nil && m.Keyboard.Kind == InlineKeyboard && len(m.Keyboard.Rows) > 0 {
		return tgbotapi.NewEditMessageTextAndMarkup(m.ChatID, m.EditMessageID, m.Text, inlineMarkup(m.Keyboard))
	}
	return tgbotapi.NewEditMessageText(m.ChatID, m.EditMessageID, m.Text)
}

func replyMarkup(kb *Keyboard) any {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	switch kb.Kind {
	case ReplyKeyboard:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
		for _, r := range kb.Rows {
			row := make([]tgbotapi.KeyboardButton, 0, len(r))
			for _, b := range r {
				row = append(row, tgbotapi.NewKeyboardButton(b.Text))
			}
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		return markup
	case InlineKeyboard:
		return inlineMarkup(kb)
	default:
		return nil
	}
}

func inlineMarkup(kb *Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
