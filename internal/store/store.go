// Package store defines the persistence abstraction for apple-stock-notifier.
// The state owner reads a full snapshot at startup and writes one back after
// every mutation, so backends only deal in whole documents.
package store

import (
	"context"
)

// Watchlist maps a watch key ("{product} | {store}") to a part number.
type Watchlist map[string]string

// Store persists the watchlist and the authorized-user set.
type Store interface {
	LoadWatchlist(ctx context.Context) (Watchlist, error)
	SaveWatchlist(ctx context.Context, w Watchlist) error

	LoadAuthorizedUsers(ctx context.Context) ([]int64, error)
	SaveAuthorizedUsers(ctx context.Context, ids []int64) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
