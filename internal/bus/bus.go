// Package bus provides the notification fan-out that keeps every catalog
// view consistent with server-side mutations. A "reload" signal travels on
// three redundant transports: the in-process event registry, the
// cross-context broadcast (WebSocket frames), and the gateway's own change
// feed. Subscribers reload idempotently, so duplicate delivery across
// transports is tolerated and no deduplication by event id is performed.
package bus

import (
	"strings"
	"sync"

	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
)

// Reason names the transport a notification arrived on.
type Reason string

const (
	ReasonLocal     Reason = "local-event"
	ReasonBroadcast Reason = "cross-context"
	ReasonFeed      Reason = "change-feed"
)

// Notification is the ephemeral "something in this table may have changed"
// signal. It carries no payload guarantee beyond the source table.
type Notification struct {
	Table  models.Table
	Reason Reason
}

// Handler receives notifications. Handlers run on the delivering goroutine
// and must hand long work off themselves; they must also tolerate receiving
// the same underlying mutation more than once.
type Handler func(Notification)

// Broadcaster is the cross-context transport. The WebSocket hub implements
// it; a nil broadcaster degrades freshness for other contexts only.
type Broadcaster interface {
	BroadcastRefresh(table models.Table)
}

// EventName returns the in-process event name for a table, mirroring the
// "<table>-updated" custom events of the public site.
func EventName(table models.Table) string {
	return table.String() + "-updated"
}

// RefreshType returns the cross-context frame type for a table, e.g.
// "PROPERTIES_REFRESH".
func RefreshType(table models.Table) string {
	return strings.ToUpper(table.String()) + "_REFRESH"
}

// TableForRefreshType resolves a cross-context frame type back to its table.
func TableForRefreshType(frameType string) (models.Table, bool) {
	name := strings.TrimSuffix(frameType, "_REFRESH")
	if name == frameType {
		return "", false
	}
	table := models.Table(strings.ToLower(name))
	return table, table.Valid()
}

// Bus is the page-wide publish/subscribe mechanism.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[models.Table]map[int]Handler

	broadcaster Broadcaster

	// feed subscriptions released on Close
	feedUnsubs []func()
}

// New creates a Bus wired to the gateway's change feed for every catalog
// table. The feed is the redundant third transport: changes committed by
// other sessions reach subscribers through it without a local Publish.
func New(gw gateway.Gateway) *Bus {
	b := &Bus{
		subs: make(map[models.Table]map[int]Handler),
	}
	for _, table := range models.Tables() {
		t := table
		unsub := gw.SubscribeChanges(t, func(event gateway.ChangeEvent) {
			b.deliver(Notification{Table: t, Reason: ReasonFeed})
		})
		b.feedUnsubs = append(b.feedUnsubs, unsub)
	}
	return b
}

// SetBroadcaster attaches the cross-context transport. May be left unset;
// the in-process and feed transports still function.
func (b *Bus) SetBroadcaster(br Broadcaster) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcaster = br
}

// Publish must be called immediately after the gateway confirms a write.
// It fires the in-process transport and the cross-context broadcast; the
// gateway change feed echoes the same write as the third path.
func (b *Bus) Publish(table models.Table) {
	logging.Debug("bus publish", logging.Fields{"event": EventName(table)})

	b.deliver(Notification{Table: table, Reason: ReasonLocal})

	b.mu.RLock()
	br := b.broadcaster
	b.mu.RUnlock()
	if br != nil {
		br.BroadcastRefresh(table)
	}
}

// Subscribe registers handler for one table and returns the function
// releasing the subscription. The returned function is safe to call more
// than once and must be called on every teardown path.
func (b *Bus) Subscribe(table models.Table, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[table] == nil {
		b.subs[table] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[table][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[table], id)
	}
}

// Deliver injects a notification received from an external transport
// (a cross-context frame from another session).
func (b *Bus) Deliver(table models.Table, reason Reason) {
	b.deliver(Notification{Table: table, Reason: reason})
}

// deliver invokes every handler subscribed to the notification's table.
func (b *Bus) deliver(n Notification) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[n.Table]))
	for _, h := range b.subs[n.Table] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(n)
	}
}

// Close releases the gateway feed subscriptions.
func (b *Bus) Close() {
	for _, unsub := range b.feedUnsubs {
		unsub()
	}
	b.feedUnsubs = nil
}
