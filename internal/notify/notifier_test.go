package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
	tgMocks "github.com/donaldgifford/apple-stock-notifier/internal/telegram/mocks"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticRecipients struct {
	ids []int64
	err error
}

func (r staticRecipients) AuthorizedUsers(context.Context) ([]int64, error) {
	return r.ids, r.err
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) SendAlert(context.Context, *StockAlert) error {
	f.calls++
	return f.err
}

func TestFormatAlert(t *testing.T) {
	t.Parallel()

	in := testAlert(InStock)
	assert.Equal(t,
		"🚨 In stock!\n📱 256GB Xanh\n🏬 Shibuya\n📍 1-20-9 Jinnan\n📞 03-1234-5678\n📧 shibuya@apple.com",
		FormatAlert(&in),
	)

	out := testAlert(OutOfStock)
	assert.Equal(t, "❌ Out of stock again\n📱 256GB Xanh\n🏬 Shibuya", FormatAlert(&out))
}

func TestAlertKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "in_stock", InStock.String())
	assert.Equal(t, "out_of_stock", OutOfStock.String())
	assert.Equal(t, "unknown", AlertKind(0).String())
}

func TestTelegramBroadcaster_SendAlert(t *testing.T) {
	t.Parallel()

	alert := testAlert(InStock)
	text := FormatAlert(&alert)

	api := tgMocks.NewMockAPI(t)
	api.EXPECT().Send(mock.Anything, telegram.Message{ChatID: 1, Text: text}).Return(nil).Once()
	api.EXPECT().Send(mock.Anything, telegram.Message{ChatID: 2, Text: text}).Return(errors.New("blocked")).Once()
	api.EXPECT().Send(mock.Anything, telegram.Message{ChatID: 3, Text: text}).Return(nil).Once()

	b := NewTelegramBroadcaster(api, staticRecipients{ids: []int64{1, 2, 3}}, quietLogger())
	err := b.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 2: blocked")
}

func TestTelegramBroadcaster_NoRecipients(t *testing.T) {
	t.Parallel()

	api := tgMocks.NewMockAPI(t)
	alert := testAlert(OutOfStock)

	b := NewTelegramBroadcaster(api, staticRecipients{}, quietLogger())
	require.NoError(t, b.SendAlert(context.Background(), &alert))
}

func TestTelegramBroadcaster_RecipientError(t *testing.T) {
	t.Parallel()

	api := tgMocks.NewMockAPI(t)
	alert := testAlert(InStock)

	b := NewTelegramBroadcaster(api, staticRecipients{err: errors.New("stopped")}, quietLogger())
	err := b.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing alert recipients")
}

func TestMulti_SendAlert(t *testing.T) {
	t.Parallel()

	ok := &fakeNotifier{}
	bad := &fakeNotifier{err: errors.New("down")}
	alert := testAlert(InStock)

	err := Multi{bad, ok}.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Equal(t, 1, ok.calls, "later notifiers still run")
	assert.Equal(t, 1, bad.calls)

	require.NoError(t, Multi{ok}.SendAlert(context.Background(), &alert))
	require.NoError(t, Multi{}.SendAlert(context.Background(), &alert))
}

func TestNoOpNotifier(t *testing.T) {
	t.Parallel()

	alert := StockAlert{Kind: InStock, Key: domain.NewWatchKey("a", "b")}
	assert.NoError(t, NewNoOpNotifier(quietLogger()).SendAlert(context.Background(), &alert))
}
