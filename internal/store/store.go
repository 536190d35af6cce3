// Package store provides the per-catalog collection store: the session's
// cached copy of one table's rows, kept fresh by whole-collection re-fetch.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/horizonbtp/vitrine/internal/bus"
	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
)

// Snapshot is the full cached copy of one table's rows, tagged with the
// query that produced it. A snapshot is always replaced whole, never
// patched, so it can never diverge from a partially applied diff.
type Snapshot struct {
	Table    models.Table
	Rows     []models.Row
	Filters  []gateway.Predicate
	Order    gateway.Order
	LoadedAt time.Time
}

// Store owns the authoritative-for-this-session copy of one table. It is a
// read-only cache of the gateway's rows, never a source of truth. Each view
// creates its own Store; snapshots are not shared across views.
type Store struct {
	table models.Table
	gw    gateway.Gateway
	bus   *bus.Bus

	mu          sync.Mutex
	snapshot    Snapshot
	loaded      bool
	lastErr     error
	closed      bool
	issuedSeq   uint64
	appliedSeq  uint64
	serverPreds []gateway.Predicate
	order       gateway.Order

	unsubscribe func()
}

// New creates a Store for one catalog table. The store is empty until Bind
// or Reload runs.
func New(table models.Table, gw gateway.Gateway, b *bus.Bus) *Store {
	return &Store{
		table: table,
		gw:    gw,
		bus:   b,
		order: gateway.OrderNewestFirst(),
	}
}

// SetServerFilter replaces the server-side query the store reloads with.
// Takes effect on the next Reload.
func (s *Store) SetServerFilter(preds []gateway.Predicate, order gateway.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverPreds = preds
	if order.Field != "" {
		s.order = order
	}
}

// Bind performs the initial load and subscribes the store to the bus so
// every notification for its table triggers a reload. The subscription is
// released by Close on every teardown path.
func (s *Store) Bind(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe == nil && s.bus != nil {
		s.unsubscribe = s.bus.Subscribe(s.table, func(n bus.Notification) {
			// Reload off the delivering goroutine; duplicate
			// notifications are fine because reload replaces the
			// snapshot rather than appending to it.
			go func() {
				if err := s.Reload(context.Background()); err != nil {
					logging.Warn("reload after notification failed", logging.Fields{
						"table":  s.table.String(),
						"reason": string(n.Reason),
						"error":  err.Error(),
					})
				}
			}()
		})
	}
	s.mu.Unlock()

	return s.Reload(ctx)
}

// Reload re-queries the gateway and atomically replaces the snapshot on
// success. On failure the previous snapshot is retained unchanged and the
// error is surfaced to the caller; no automatic retry is performed.
//
// Concurrent reloads resolve last-completed-wins: once a later-issued reload
// has been applied, an earlier request's result is silently discarded when
// it eventually arrives. Reloads are idempotent reads, so this never loses
// a mutation.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.issuedSeq++
	seq := s.issuedSeq
	preds := s.serverPreds
	order := s.order
	s.mu.Unlock()

	rows, err := s.gw.Query(ctx, s.table, preds, order)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		// Torn down while in flight; discard silently.
		return nil
	}
	if seq < s.appliedSeq {
		// A later-issued reload already completed; this result is stale.
		return nil
	}

	if err != nil {
		s.lastErr = err
		return err
	}

	s.appliedSeq = seq
	s.snapshot = Snapshot{
		Table:    s.table,
		Rows:     rows,
		Filters:  preds,
		Order:    order,
		LoadedAt: time.Now(),
	}
	s.loaded = true
	s.lastErr = nil
	return nil
}

// Snapshot returns the current snapshot. The returned row slice must be
// treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Loaded reports whether at least one reload has succeeded. A loaded store
// with zero rows is a valid "no results" state, distinct from a store whose
// load failed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LastError returns the error of the most recent failed reload, or nil
// after a successful one.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Table returns the catalog table this store caches.
func (s *Store) Table() models.Table {
	return s.table
}

// Close releases the bus subscription. In-flight reloads complete and their
// results are silently discarded; Close is safe to call more than once.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
