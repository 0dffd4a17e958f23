package notify

import (
	"context"
	"errors"
)

// Multi fans an alert out to several notifiers. Every notifier is tried; the
// errors are joined.
type Multi []Notifier

// SendAlert implements Notifier.
func (m Multi) SendAlert(ctx context.Context, alert *StockAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.SendAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
