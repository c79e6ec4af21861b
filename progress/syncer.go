// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrReadOnly       = errors.New("status list is read-only")
	ErrSuperseded     = errors.New("superseded by a newer request")
	ErrDuplicateItems = errors.New("duplicate calendar days in canonical list")
)

// FetchError reports that the canonical item list could not be retrieved.
// Nothing was reconciled or written.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch calendar days: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source supplies the canonical, rank-ordered item list.
type Source interface {
	CanonicalItems(ctx context.Context) ([]Item, error)
}

// Store loads and replaces a user's persisted status list.
type Store interface {
	LoadStatuses(ctx context.Context, userID string) (StatusList, error)
	ReplaceStatuses(ctx context.Context, userID string, list StatusList) error
}

type Options struct {
	// ReadOnly rejects every Toggle before any work is done.
	ReadOnly bool

	// OnReplace is called after each successful replace-whole-array write.
	OnReplace func(userID string, list StatusList)
}

type Syncer struct {
	source Source
	store  Store
	opts   Options

	mu    sync.Mutex
	users map[string]*userState
}

type userState struct {
	// write serializes load → reconcile → replace for one user
	write sync.Mutex
	// generation is guarded by Syncer.mu
	generation uint64
}

func NewSyncer(source Source, store Store, opts Options) *Syncer {
	return &Syncer{
		source: source,
		store:  store,
		opts:   opts,
		users:  make(map[string]*userState),
	}
}

// ReadOnly reports whether toggles are disabled.
func (s *Syncer) ReadOnly() bool {
	return s.opts.ReadOnly
}

// Sync reconciles the user's stored list against the live calendar and
// replaces it when NeedsSync reports drift. It returns the reconciled list.
func (s *Syncer) Sync(ctx context.Context, userID string) (StatusList, error) {
	return s.sync(ctx, userID, nil)
}

// Snapshot is Sync that also hands the reconciled list to deliver before
// the user's write lock is released. No replacement by a later request can
// be observed by deliver's receiver ahead of that list.
func (s *Syncer) Snapshot(ctx context.Context, userID string, deliver func(StatusList)) (StatusList, error) {
	return s.sync(ctx, userID, deliver)
}

func (s *Syncer) sync(ctx context.Context, userID string, deliver func(StatusList)) (StatusList, error) {
	state, ticket := s.begin(userID)

	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkCurrent(ctx, state, ticket); err != nil {
		return nil, err
	}

	state.write.Lock()
	defer state.write.Unlock()

	// a newer request may have started while we waited for the lock
	if err := s.checkCurrent(ctx, state, ticket); err != nil {
		return nil, err
	}

	persisted, err := s.store.LoadStatuses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status list: %w", err)
	}

	reconciled := Reconcile(items, persisted)
	if len(items) > 0 && NeedsSync(persisted, reconciled) {
		if err := s.replace(ctx, userID, reconciled); err != nil {
			return nil, err
		}
		slog.Info("status list reconciled",
			"user_id", userID,
			"previous", len(persisted),
			"current", len(reconciled),
		)
	}

	if deliver != nil {
		deliver(reconciled)
	}
	return reconciled, nil
}

// Toggle flips the completion flag for itemID and writes the whole list.
// An itemID missing from the calendar is logged and ignored. Toggles are
// never superseded; a stale one re-reads the calendar before writing.
func (s *Syncer) Toggle(ctx context.Context, userID, itemID string) (StatusList, error) {
	if s.opts.ReadOnly {
		return nil, ErrReadOnly
	}

	state, ticket := s.begin(userID)

	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	state.write.Lock()
	defer state.write.Unlock()

	if ctx.Err() != nil {
		return nil, ErrSuperseded
	}

	// A newer request may have written a list built from a newer calendar
	// while our fetch was in flight. Never reconcile the click against the
	// older snapshot; fetch again under the lock instead.
	if err := s.checkCurrent(ctx, state, ticket); err != nil {
		if items, err = s.fetch(ctx); err != nil {
			return nil, err
		}
	}

	persisted, err := s.store.LoadStatuses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status list: %w", err)
	}

	reconciled := Reconcile(items, persisted)
	updated, ok := Toggle(reconciled, itemID)
	if !ok {
		slog.Warn("toggle for unknown calendar day ignored", "user_id", userID, "day_id", itemID)
		return reconciled, nil
	}

	if err := s.replace(ctx, userID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Syncer) fetch(ctx context.Context) ([]Item, error) {
	items, err := s.source.CanonicalItems(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	if dups := DuplicateIDs(items); len(dups) > 0 {
		slog.Warn("canonical list has duplicate calendar days", "ids", dups)
		return nil, fmt.Errorf("%w: %s", ErrDuplicateItems, strings.Join(dups, ", "))
	}
	return items, nil
}

func (s *Syncer) replace(ctx context.Context, userID string, list StatusList) error {
	if err := s.store.ReplaceStatuses(ctx, userID, list); err != nil {
		return fmt.Errorf("failed to replace status list: %w", err)
	}
	if s.opts.OnReplace != nil {
		s.opts.OnReplace(userID, list)
	}
	return nil
}

// begin registers a new request for userID and returns its ticket. Any
// request holding an older ticket is stale from now on.
func (s *Syncer) begin(userID string) (*userState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.users[userID]
	if !ok {
		state = &userState{}
		s.users[userID] = state
	}
	state.generation++
	return state, state.generation
}

func (s *Syncer) checkCurrent(ctx context.Context, state *userState, ticket uint64) error {
	if ctx.Err() != nil {
		return ErrSuperseded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state.generation != ticket {
		return ErrSuperseded
	}
	return nil
}
