// Package state owns the mutable bot state: the watchlist, the authorized
// users and the per-chat product selections. A single goroutine (Run) holds
// the maps; every other task reaches them through the methods on State, which
// hand a closure to that goroutine and wait for it to finish.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	"github.com/donaldgifford/apple-stock-notifier/internal/metrics"
	"github.com/donaldgifford/apple-stock-notifier/internal/store"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

var (
	// ErrUnknownProduct is returned when a product ID is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrUnknownStore is returned when a store name is not in the catalog.
	ErrUnknownStore = errors.New("unknown store")
	// ErrStopped is returned once Run has exited.
	ErrStopped = errors.New("state owner stopped")
)

// State is the owner of the watchlist, authorized users and selections.
type State struct {
	store store.Store
	log   *slog.Logger

	reqs    chan func()
	stopped chan struct{}

	// Owned by the Run goroutine after New returns.
	watches    store.Watchlist
	users      map[int64]struct{}
	selections map[int64]string
}

// Option configures the State.
type Option func(*State)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		s.log = l
	}
}

// New loads the persisted watchlist and authorized users from st. Load
// failures are returned; the caller is expected to abort startup.
func New(ctx context.Context, st store.Store, opts ...Option) (*State, error) {
	s := &State{
		store:      st,
		log:        slog.Default(),
		reqs:       make(chan func()),
		stopped:    make(chan struct{}),
		watches:    store.Watchlist{},
		users:      map[int64]struct{}{},
		selections: map[int64]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	w, err := st.LoadWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	for key, part := range w {
		k, err := domain.ParseWatchKey(key)
		if err == nil {
			err = checkKey(k)
		}
		if err != nil {
			s.log.Warn("dropping invalid watch key", "watch", key, "error", err)
			continue
		}
		s.watches[key] = part
	}

	ids, err := st.LoadAuthorizedUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.users[id] = struct{}{}
	}

	s.syncGauges()
	s.log.Info("state loaded", "watches", len(s.watches), "authorized_users", len(s.users))

	return s, nil
}

// Run serves requests until ctx is cancelled. It must be started exactly
// once; methods called before Run starts block until it does.
func (s *State) Run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-s.reqs:
			fn()
		}
	}
}

// do runs fn on the owner goroutine and waits for it.
func (s *State) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	req := func() {
		defer close(done)
		fn()
	}

	select {
	case s.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}

	<-done
	return nil
}

// checkKey rejects keys whose product or store is not in the catalog. The
// self-test key is accepted.
func checkKey(k domain.WatchKey) error {
	if catalog.ValidKey(k) {
		return nil
	}
	if _, ok := catalog.ProductByName(k.Product); !ok && k.Product != catalog.TestProductName {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, k.Product)
	}
	return fmt.Errorf("%w: %q", ErrUnknownStore, k.Store)
}

// Ping reports whether the owner goroutine is serving requests.
func (s *State) Ping(ctx context.Context) error {
	return s.do(ctx, func() {})
}

// Watches returns every watch entry sorted by key.
func (s *State) Watches(ctx context.Context) ([]domain.WatchEntry, error) {
	var out []domain.WatchEntry
	err := s.do(ctx, func() {
		out = make([]domain.WatchEntry, 0, len(s.watches))
		for _, key := range slices.Sorted(maps.Keys(s.watches)) {
			k, _ := domain.ParseWatchKey(key) // validated on insert
			out = append(out, domain.WatchEntry{Key: k, PartNumber: s.watches[key]})
		}
	})
	return out, err
}

// AddWatch inserts or replaces a watch and persists the watchlist. On a
// persistence failure the in-memory change is rolled back.
func (s *State) AddWatch(ctx context.Context, entry domain.WatchEntry) error {
	key := entry.Key.String()
	k, err := domain.ParseWatchKey(key)
	if err != nil {
		return err
	}
	if err := checkKey(k); err != nil {
		return err
	}

	var saveErr error
	err = s.do(ctx, func() {
		prev, existed := s.watches[key]
		s.watches[key] = entry.PartNumber

		if saveErr = s.saveWatchlist(ctx); saveErr != nil {
			if existed {
				s.watches[key] = prev
			} else {
				delete(s.watches, key)
			}
		}
		s.syncGauges()
	})
	if err != nil {
		return err
	}
	if saveErr == nil {
		s.log.Info("watch added", "watch", key, "part", entry.PartNumber)
	}
	return saveErr
}

// DeleteWatch removes a watch by its persisted key. It reports whether the
// key existed.
func (s *State) DeleteWatch(ctx context.Context, key string) (bool, error) {
	var (
		found   bool
		saveErr error
	)
	err := s.do(ctx, func() {
		part, ok := s.watches[key]
		if !ok {
			return
		}
		found = true
		delete(s.watches, key)

		if saveErr = s.saveWatchlist(ctx); saveErr != nil {
			s.watches[key] = part
		}
		s.syncGauges()
	})
	if err != nil {
		return false, err
	}
	if found && saveErr == nil {
		s.log.Info("watch deleted", "watch", key)
	}
	return found, saveErr
}

// SelectProduct records that chatID picked productID and is about to pick a
// store.
func (s *State) SelectProduct(ctx context.Context, chatID int64, productID string) (domain.Product, error) {
	p, ok := catalog.Product(productID)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	err := s.do(ctx, func() {
		s.selections[chatID] = productID
	})
	return p, err
}

// Selection returns the product ID chatID last selected.
func (s *State) Selection(ctx context.Context, chatID int64) (string, bool, error) {
	var (
		id string
		ok bool
	)
	err := s.do(ctx, func() {
		id, ok = s.selections[chatID]
	})
	return id, ok, err
}

// CompleteSelection turns a (product, store) choice into a persisted watch
// and clears the chat's pending selection.
func (s *State) CompleteSelection(
	ctx context.Context,
	chatID int64,
	productID, storeName string,
) (domain.WatchEntry, error) {
	p, ok := catalog.Product(productID)
	if !ok {
		return domain.WatchEntry{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	if !catalog.IsStore(storeName) {
		return domain.WatchEntry{}, fmt.Errorf("%w: %q", ErrUnknownStore, storeName)
	}

	entry := domain.WatchEntry{
		Key:        domain.NewWatchKey(p.DisplayName, storeName),
		PartNumber: p.PartNumber,
	}
	if err := s.AddWatch(ctx, entry); err != nil {
		return domain.WatchEntry{}, err
	}

	err := s.do(ctx, func() {
		delete(s.selections, chatID)
	})
	return entry, err
}

// IsAuthorized reports whether userID has entered the password.
func (s *State) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := s.do(ctx, func() {
		_, ok = s.users[userID]
	})
	return ok, err
}

// Authorize adds userID to the authorized set and persists it. Authorizing an
// already authorized user is a no-op.
func (s *State) Authorize(ctx context.Context, userID int64) error {
	var (
		added   bool
		saveErr error
	)
	err := s.do(ctx, func() {
		if _, ok := s.users[userID]; ok {
			return
		}
		added = true
		s.users[userID] = struct{}{}

		if saveErr = s.saveUsers(ctx); saveErr != nil {
			delete(s.users, userID)
		}
		s.syncGauges()
	})
	if err != nil {
		return err
	}
	if added && saveErr == nil {
		s.log.Info("user authorized", "user_id", userID)
	}
	return saveErr
}

// AuthorizedUsers returns the authorized user IDs in ascending order.
func (s *State) AuthorizedUsers(ctx context.Context) ([]int64, error) {
	var out []int64
	err := s.do(ctx, func() {
		out = slices.Sorted(maps.Keys(s.users))
	})
	return out, err
}

func (s *State) saveWatchlist(ctx context.Context) error {
	if err := s.store.SaveWatchlist(ctx, maps.Clone(s.watches)); err != nil {
		metrics.PersistFailuresTotal.Inc()
		s.log.Error("persisting watchlist failed", "error", err)
		return fmt.Errorf("persisting watchlist: %w", err)
	}
	return nil
}

func (s *State) saveUsers(ctx context.Context) error {
	if err := s.store.SaveAuthorizedUsers(ctx, slices.Sorted(maps.Keys(s.users))); err != nil {
		metrics.PersistFailuresTotal.Inc()
		s.log.Error("persisting authorized users failed", "error", err)
		return fmt.Errorf("persisting authorized users: %w", err)
	}
	return nil
}

func (s *State) syncGauges() {
	metrics.WatchesTotal.Set(float64(len(s.watches)))
	metrics.AuthorizedUsersTotal.Set(float64(len(s.users)))
}
