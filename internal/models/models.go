// Package models provides the data model definitions for the catalog tables.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case []byte:
		*u = UUID(v)
	case string:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Table identifies one of the catalog tables.
type Table string

const (
	TableProperties   Table = "properties"
	TableProjects     Table = "projects"
	TableVehicles     Table = "vehicles"
	TableTestimonials Table = "testimonials"
	TableContacts     Table = "contacts"
)

// Tables lists every catalog table in a stable order.
func Tables() []Table {
	return []Table{TableProperties, TableProjects, TableVehicles, TableTestimonials, TableContacts}
}

// Valid reports whether the table is one of the known catalogs.
func (t Table) Valid() bool {
	switch t {
	case TableProperties, TableProjects, TableVehicles, TableTestimonials, TableContacts:
		return true
	}
	return false
}

// String returns the table name.
func (t Table) String() string {
	return string(t)
}

// Row is the common view of a catalog row held by collection snapshots.
// Concrete row types live in this package; the gateway validates payloads
// into these types at its boundary so nothing downstream handles untyped maps.
type Row interface {
	// RowID returns the opaque row identifier.
	RowID() UUID

	// RowTable returns the table the row belongs to.
	RowTable() Table

	// RowStatus returns the lifecycle status value.
	RowStatus() string

	// CreatedAtUnix returns the creation timestamp (Unix seconds).
	CreatedAtUnix() int64

	// SearchableText returns the fields matched by free-text search.
	SearchableText() []string

	// CategoricalField returns the value of a named categorical field and
	// whether the row carries that field at all.
	CategoricalField(name string) (string, bool)

	// PriceAmount returns the row's price and whether the row is priced.
	PriceAmount() (float64, bool)

	// Init stamps a freshly inserted row with its identifier and creation
	// time. Called by the gateway only.
	Init(id UUID, now int64)
}

// nowUnix is swapped in tests to pin timestamps.
var nowUnix = func() int64 { return time.Now().Unix() }

// Ensure every catalog type implements Row at compile time.
var (
	_ Row = (*Property)(nil)
	_ Row = (*Project)(nil)
	_ Row = (*Vehicle)(nil)
	_ Row = (*Testimonial)(nil)
	_ Row = (*ContactMessage)(nil)
)
