package models

import "time"

// PropertyStatus is the lifecycle status of a property listing.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
)

// Valid reports whether the status is one of the closed set.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertySold, PropertyRented:
		return true
	}
	return false
}

// Property represents a real-estate listing.
type Property struct {
	ID           UUID           `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description,omitempty"`
	PropertyType string         `db:"property_type" json:"property_type"`
	City         string         `db:"city" json:"city"`
	Neighborhood string         `db:"neighborhood" json:"neighborhood,omitempty"`
	Price        float64        `db:"price" json:"price"`
	Area         float64        `db:"area" json:"area,omitempty"`
	Bedrooms     int            `db:"bedrooms" json:"bedrooms,omitempty"`
	MediaURLs    string         `db:"media_urls" json:"media_urls,omitempty"` // Comma-separated
	Status       PropertyStatus `db:"status" json:"status"`
	IsDeleted    bool           `db:"is_deleted" json:"is_deleted"`
	CreatedAt    int64          `db:"created_at" json:"created_at"`
	UpdatedAt    int64          `db:"updated_at" json:"updated_at"`
	Version      int            `db:"version" json:"version"`
}

// TableName returns the table name for Property.
func (Property) TableName() string {
	return string(TableProperties)
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (p *Property) CreatedAtTime() time.Time {
	return time.Unix(p.CreatedAt, 0)
}

// Init implements Row.
func (p *Property) Init(id UUID, now int64) {
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1
	p.IsDeleted = false
}

// Touch updates the UpdatedAt timestamp and bumps the version.
func (p *Property) Touch() {
	p.UpdatedAt = nowUnix()
	p.Version++
}

// RowID implements Row.
func (p *Property) RowID() UUID { return p.ID }

// RowTable implements Row.
func (p *Property) RowTable() Table { return TableProperties }

// RowStatus implements Row.
func (p *Property) RowStatus() string { return string(p.Status) }

// CreatedAtUnix implements Row.
func (p *Property) CreatedAtUnix() int64 { return p.CreatedAt }

// SearchableText implements Row.
func (p *Property) SearchableText() []string {
	return []string{p.Title, p.Description, p.City, p.Neighborhood}
}

// CategoricalField implements Row.
func (p *Property) CategoricalField(name string) (string, bool) {
	switch name {
	case "status":
		return string(p.Status), true
	case "city":
		return p.City, true
	case "neighborhood":
		return p.Neighborhood, true
	case "property_type":
		return p.PropertyType, true
	}
	return "", false
}

// PriceAmount implements Row.
func (p *Property) PriceAmount() (float64, bool) { return p.Price, true }
