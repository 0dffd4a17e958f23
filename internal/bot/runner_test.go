package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
	tgMocks "github.com/donaldgifford/apple-stock-notifier/internal/telegram/mocks"
)

type handlerFunc func(ctx context.Context, in telegram.Inbound) error

func (f handlerFunc) Handle(ctx context.Context, in telegram.Inbound) error { return f(ctx, in) }

func TestRunner_PollsAndAdvancesOffset(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := tgMocks.NewMockAPI(t)
	api.EXPECT().GetUpdates(mock.Anything, 0, 30*time.Second).Return([]telegram.Inbound{
		{UpdateID: 10, ChatID: 1, UserID: 1, Text: "/start"},
		{UpdateID: 11, ChatID: 1, UserID: 1, CallbackID: "cb-1", CallbackData: "x"},
	}, nil).Once()
	api.EXPECT().AnswerCallback(mock.Anything, "cb-1", "").Return(nil).Once()
	api.EXPECT().GetUpdates(mock.Anything, 12, 30*time.Second).Return(nil, errors.New("bad gateway")).Once()
	api.EXPECT().GetUpdates(mock.Anything, 12, 30*time.Second).
		RunAndReturn(func(context.Context, int, time.Duration) ([]telegram.Inbound, error) {
			cancel()
			return nil, context.Canceled
		}).Once()

	var (
		mu   sync.Mutex
		seen []int
	)
	h := handlerFunc(func(_ context.Context, in telegram.Inbound) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, in.UpdateID)
		if in.IsCallback() {
			return errors.New("handler failure is logged only")
		}
		return nil
	})

	r := NewRunner(api, h,
		WithRunnerLogger(quietLogger()),
		WithRetryDelay(time.Millisecond),
	)
	require.NoError(t, r.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{10, 11}, seen)
}

func TestRunner_StopsDuringRetryDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	api := tgMocks.NewMockAPI(t)
	api.EXPECT().GetUpdates(mock.Anything, 0, 5*time.Second).
		RunAndReturn(func(context.Context, int, time.Duration) ([]telegram.Inbound, error) {
			time.AfterFunc(20*time.Millisecond, cancel)
			return nil, errors.New("connection reset")
		}).Once()

	r := NewRunner(api, handlerFunc(func(context.Context, telegram.Inbound) error { return nil }),
		WithRunnerLogger(quietLogger()),
		WithPollTimeout(5*time.Second),
		WithRetryDelay(time.Hour),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_Announce(t *testing.T) {
	t.Parallel()

	api := tgMocks.NewMockAPI(t)
	api.EXPECT().Send(mock.Anything, telegram.Message{ChatID: -100, Text: textAnnounce}).
		Return(errors.New("kicked")).Once()

	r := NewRunner(api, nil, WithRunnerLogger(quietLogger()))
	r.Announce(context.Background(), 0)
	r.Announce(context.Background(), -100)
}
