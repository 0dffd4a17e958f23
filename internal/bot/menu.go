package bot

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	"github.com/donaldgifford/apple-stock-notifier/internal/notify"
	"github.com/donaldgifford/apple-stock-notifier/internal/telegram"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// Main menu commands. The reply keyboard sends these texts back verbatim.
const (
	CmdStart     = "/start"
	CmdTest      = "/test"
	CmdWatch     = "➕ Watch a product"
	CmdWatchlist = "📋 Watchlist"
	CmdStatus    = "📦 Check status"
	CmdTestAlert = "🧪 Test alert"
)

const (
	textAnnounce       = "🤖 Apple stock checker started! Send /start to begin watching products."
	textMainMenu       = "🤖 Choose an action:"
	textPickProduct    = "📱 Choose a product to watch:"
	textEmptyWatchlist = "📭 Your watchlist is empty."
	textPasswordPrompt = "🔒 This bot is private. Send the password to continue."
	textAccessGranted  = "✅ Access granted."
	textNotSaved       = "⚠️ The change could not be saved. Please try again later."
	textStatusHeader   = "📦 Watch status:"
)

func mainMenu(chatID int64) telegram.Message {
	return telegram.Message{
		ChatID: chatID,
		Text:   textMainMenu,
		Keyboard: telegram.NewReplyKeyboard(
			[]string{CmdWatch},
			[]string{CmdWatchlist},
			[]string{CmdStatus},
			[]string{CmdTestAlert},
		),
	}
}

func productList(chatID int64) telegram.Message {
	products := catalog.Products()
	buttons := make([]telegram.Button, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, telegram.Button{
			Text: p.DisplayName,
			Data: SelectProduct{ProductID: p.ID}.Encode(),
		})
	}
	return telegram.Message{
		ChatID:   chatID,
		Text:     textPickProduct,
		Keyboard: telegram.NewInlineColumn(buttons...),
	}
}

func storeList(chatID int64, p domain.Product) telegram.Message {
	stores := catalog.Stores()
	buttons := make([]telegram.Button, 0, len(stores))
	for _, s := range stores {
		buttons = append(buttons, telegram.Button{
			Text: s,
			Data: SelectStore{ProductID: p.ID, Store: s}.Encode(),
		})
	}
	return telegram.Message{
		ChatID:   chatID,
		Text:     "🏬 Choose a store for:\n" + p.DisplayName,
		Keyboard: telegram.NewInlineColumn(buttons...),
	}
}

// watchlistView renders the watchlist with one delete button per entry. An
// empty watchlist renders as a plain message without a keyboard.
func watchlistView(chatID int64, entries []domain.WatchEntry) telegram.Message {
	if len(entries) == 0 {
		return telegram.Message{ChatID: chatID, Text: textEmptyWatchlist}
	}

	var b strings.Builder
	b.WriteString("📋 Watchlist:\n")
	buttons := make([]telegram.Button, 0, len(entries))
	for _, e := range entries {
		key := e.Key.String()
		fmt.Fprintf(&b, "\n• %s", key)
		buttons = append(buttons, telegram.Button{
			Text: "❌ Remove " + key,
			Data: DeleteWatch{Key: key}.Encode(),
		})
	}

	return telegram.Message{
		ChatID:   chatID,
		Text:     b.String(),
		Keyboard: telegram.NewInlineColumn(buttons...),
	}
}

func watchAdded(key domain.WatchKey, status string) string {
	return fmt.Sprintf(
		"👀 Now watching:\n📱 %s\n🏬 %s\n\n%s\n\nYou will be alerted when it is in stock at %s.",
		key.Product, key.Store, status, key.Store,
	)
}

func availabilityLine(key domain.WatchKey, stores []domain.StoreResult) string {
	if len(stores) == 0 {
		return "❌ Currently out of stock at " + key.Store
	}
	names := make([]string, 0, len(stores))
	for _, s := range stores {
		names = append(names, s.Name)
	}
	return "✅ Currently in stock at " + strings.Join(names, ", ")
}

// statusEntry renders one watch of the status report.
func statusEntry(key domain.WatchKey, stores []domain.StoreResult) string {
	if len(stores) == 0 {
		return fmt.Sprintf("❌ %s at %s: out of stock", key.Product, key.Store)
	}
	blocks := make([]string, 0, len(stores)+1)
	blocks = append(blocks, fmt.Sprintf("✅ %s:", key.Product))
	for _, s := range stores {
		blocks = append(blocks, notify.FormatStore(s))
	}
	return strings.Join(blocks, "\n")
}
