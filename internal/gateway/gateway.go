// Package gateway provides the persistence gateway: CRUD over the catalog
// tables plus a per-table change feed. Every call is fallible and callers
// must treat it as such.
package gateway

import (
	"context"

	"github.com/horizonbtp/vitrine/internal/models"
)

// Operation is the kind of mutation carried by a change event.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Predicate is a single server-side filter condition applied by Query.
type Predicate struct {
	Field string
	Op    string // "=", ">=", "<=", "LIKE"
	Value interface{}
}

// Eq builds an equality predicate.
func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: "=", Value: value}
}

// Order describes the sort applied by Query.
type Order struct {
	Field string
	Desc  bool
}

// OrderNewestFirst is the default catalog ordering.
func OrderNewestFirst() Order {
	return Order{Field: "created_at", Desc: true}
}

// ChangeEvent notifies a subscriber that something in a table may have
// changed. The event id is for log correlation only; receivers never
// deduplicate by it.
type ChangeEvent struct {
	EventID string
	Table   models.Table
	Op      Operation
	RowID   models.UUID
	At      int64
}

// Gateway is the persistence service the rest of the system depends on.
type Gateway interface {
	// Query returns the current rows of a table matching the predicates,
	// in the requested order.
	Query(ctx context.Context, table models.Table, preds []Predicate, order Order) ([]models.Row, error)

	// Insert creates a row. The write is durably committed before the
	// returned row is handed back.
	Insert(ctx context.Context, table models.Table, row models.Row) (models.Row, error)

	// Get returns the live row with the given id.
	Get(ctx context.Context, table models.Table, id models.UUID) (models.Row, error)

	// Update replaces the mutable fields of the row with the given id.
	Update(ctx context.Context, table models.Table, id models.UUID, row models.Row) (models.Row, error)

	// Delete soft deletes the row with the given id.
	Delete(ctx context.Context, table models.Table, id models.UUID) error

	// SubscribeChanges registers handler for the table's change feed and
	// returns the function releasing the subscription.
	SubscribeChanges(table models.Table, handler func(ChangeEvent)) func()
}
