package gateway

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
)

// changeFeed fans committed mutations out to per-table subscribers.
// Delivery is synchronous in the emitting goroutine; handlers must hand
// long work off themselves.
type changeFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[models.Table]map[int]func(ChangeEvent)
}

func newChangeFeed() *changeFeed {
	return &changeFeed{
		subs: make(map[models.Table]map[int]func(ChangeEvent)),
	}
}

// subscribe registers a handler and returns the function releasing it.
// The returned function is safe to call more than once.
func (f *changeFeed) subscribe(table models.Table, handler func(ChangeEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs[table] == nil {
		f.subs[table] = make(map[int]func(ChangeEvent))
	}
	id := f.nextID
	f.nextID++
	f.subs[table][id] = handler

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[table], id)
	}
}

// emit delivers the event to every subscriber of its table.
func (f *changeFeed) emit(table models.Table, op Operation, rowID models.UUID) {
	event := ChangeEvent{
		EventID: ulid.Make().String(),
		Table:   table,
		Op:      op,
		RowID:   rowID,
		At:      time.Now().Unix(),
	}

	f.mu.RLock()
	handlers := make([]func(ChangeEvent), 0, len(f.subs[table]))
	for _, h := range f.subs[table] {
		handlers = append(handlers, h)
	}
	f.mu.RUnlock()

	logging.Debug("change feed emit", logging.Fields{
		"event_id": event.EventID,
		"table":    table.String(),
		"op":       string(op),
	})

	for _, h := range handlers {
		h(event)
	}
}
