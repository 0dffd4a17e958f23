// Package domain defines the core business types for the Apple stock notifier.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WatchKeySeparator joins the product display name and the store name.
const WatchKeySeparator = " | "

// ErrInvalidWatchKey is returned when a watch key does not split into a
// product and a store.
var ErrInvalidWatchKey = errors.New("invalid watch key")

// Product is a catalog entry for a single orderable configuration.
type Product struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PartNumber  string `json:"part_number"`
}

// WatchKey identifies a monitored (product, store) pair.
type WatchKey struct {
	Product string
	Store   string
}

// NewWatchKey builds a WatchKey from a product display name and a store name.
func NewWatchKey(product, store string) WatchKey {
	return WatchKey{Product: product, Store: store}
}

// String renders the key in its persisted "{product} | {store}" form.
func (k WatchKey) String() string {
	return k.Product + WatchKeySeparator + k.Store
}

// ParseWatchKey splits a persisted key on the first separator.
// Both halves must be non-empty.
func ParseWatchKey(s string) (WatchKey, error) {
	product, store, ok := strings.Cut(s, WatchKeySeparator)
	if !ok || product == "" || store == "" {
		return WatchKey{}, fmt.Errorf("%w: %q", ErrInvalidWatchKey, s)
	}
	return WatchKey{Product: product, Store: store}, nil
}

// WatchEntry is one monitored (product, store) pair and the part number that
// is probed for it.
type WatchEntry struct {
	Key        WatchKey `json:"-"`
	PartNumber string   `json:"part_number"`
}

// Location returns the retailer location code probed for the entry.
func (w WatchEntry) Location() string {
	return w.Key.Store
}

// StoreResult describes a store that reports pickup availability.
type StoreResult struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Availability is the last known stock state of a watch.
type Availability int

// Availability states. The zero value is Unavailable so that a missing record
// reads as "not in stock".
const (
	Unavailable Availability = iota
	Available
)

func (a Availability) String() string {
	if a == Available {
		return "available"
	}
	return "unavailable"
}

// AvailabilityRecord is a point-in-time view of one watch's state. ChangedAt
// is zero until the first transition.
type AvailabilityRecord struct {
	Key       string       `json:"key"`
	State     Availability `json:"-"`
	StateName string       `json:"state"`
	Stores    int          `json:"stores"`
	CheckedAt time.Time    `json:"checked_at"`
	ChangedAt time.Time    `json:"changed_at,omitzero"`
}
