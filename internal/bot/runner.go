package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
)

// Handler processes one inbound update.
type Handler interface {
	Handle(ctx context.Context, in telegram.Inbound) error
}

// Runner long-polls the Bot API and feeds each update to a Handler in order.
type Runner struct {
	api         telegram.API
	handler     Handler
	log         *slog.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = l
	}
}

// WithPollTimeout sets the long-poll timeout sent to getUpdates.
func WithPollTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.pollTimeout = d
	}
}

// WithRetryDelay sets the pause after a failed getUpdates call.
func WithRetryDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.retryDelay = d
	}
}

// NewRunner creates a Runner.
func NewRunner(api telegram.API, h Handler, opts ...RunnerOption) *Runner {
	r := &Runner{
		api:         api,
		handler:     h,
		log:         slog.Default(),
		pollTimeout: 30 * time.Second,
		retryDelay:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Announce sends the startup message to chatID. A zero chatID is a no-op.
func (r *Runner) Announce(ctx context.Context, chatID int64) {
	if chatID == 0 {
		return
	}
	if err := r.api.Send(ctx, telegram.Message{ChatID: chatID, Text: textAnnounce}); err != nil {
		r.log.Warn("startup announcement failed", "chat_id", chatID, "error", err)
	}
}

// Run polls until ctx is cancelled. Poll failures are logged and retried
// after the retry delay; handler errors are logged and the update is
// consumed regardless.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("update loop started", "poll_timeout", r.pollTimeout)

	offset := 0
	for {
		if ctx.Err() != nil {
			r.log.Info("update loop stopped")
			return nil
		}

		updates, err := r.api.GetUpdates(ctx, offset, r.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			metrics.UpdatePollErrorsTotal.Inc()
			r.log.Warn("polling updates failed", "error", err, "retry_in", r.retryDelay)
			select {
			case <-ctx.Done():
			case <-time.After(r.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			r.dispatch(ctx, u)
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, u telegram.Inbound) {
	if u.IsCallback() {
		if err := r.api.AnswerCallback(ctx, u.CallbackID, ""); err != nil {
			r.log.Warn("answering callback failed", "chat_id", u.ChatID, "error", err)
		}
	}

	if err := r.handler.Handle(ctx, u); err != nil {
		r.log.Error("handling update failed",
			"update_id", u.UpdateID,
			"chat_id", u.ChatID,
			"user_id", u.UserID,
			"error", err,
		)
	}
}
