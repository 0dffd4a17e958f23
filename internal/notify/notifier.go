// Package notify defines the stock alert payload, the Notifier interface and
// its delivery channels.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// AlertKind distinguishes the two availability transitions.
type AlertKind int

// Alert kinds.
const (
	InStock AlertKind = iota + 1
	OutOfStock
)

func (k AlertKind) String() string {
	switch k {
	case InStock:
		return "in_stock"
	case OutOfStock:
		return "out_of_stock"
	default:
		return "unknown"
	}
}

// StockAlert describes one availability transition of a watch.
type StockAlert struct {
	Kind       AlertKind
	Key        domain.WatchKey
	PartNumber string
	Stores     []domain.StoreResult // empty for OutOfStock
	DetectedAt time.Time
}

// Notifier delivers stock alerts.
type Notifier interface {
	SendAlert(ctx context.Context, alert *StockAlert) error
}

// FormatAlert renders the chat text of an alert.
func FormatAlert(a *StockAlert) string {
	if a.Kind == OutOfStock {
		return fmt.Sprintf("❌ Out of stock again\n📱 %s\n🏬 %s", a.Key.Product, a.Key.Store)
	}

	var b strings.Builder
	b.WriteString("🚨 In stock!\n")
	fmt.Fprintf(&b, "📱 %s", a.Key.Product)
	for _, s := range a.Stores {
		b.WriteString("\n")
		b.WriteString(FormatStore(s))
	}
	return b.String()
}

// FormatStore renders one store's contact block.
func FormatStore(s domain.StoreResult) string {
	return fmt.Sprintf("🏬 %s\n📍 %s\n📞 %s\n📧 %s", s.Name, s.Address, s.Phone, s.Email)
}
