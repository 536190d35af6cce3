package models

import "time"

// VehicleStatus is the lifecycle status of a vehicle listing.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleSold      VehicleStatus = "sold"
	VehicleRented    VehicleStatus = "rented"
)

// Valid reports whether the status is one of the closed set.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleSold, VehicleRented:
		return true
	}
	return false
}

// Vehicle represents a vehicle listing.
type Vehicle struct {
	ID        UUID          `db:"id" json:"id"`
	Title     string        `db:"title" json:"title"`
	Make      string        `db:"make" json:"make"`
	Model     string        `db:"model" json:"model"`
	Year      int           `db:"year" json:"year,omitempty"`
	Mileage   int           `db:"mileage" json:"mileage,omitempty"`
	FuelType  string        `db:"fuel_type" json:"fuel_type,omitempty"`
	City      string        `db:"city" json:"city"`
	Price     float64       `db:"price" json:"price"`
	MediaURLs string        `db:"media_urls" json:"media_urls,omitempty"` // Comma-separated
	Status    VehicleStatus `db:"status" json:"status"`
	IsDeleted bool          `db:"is_deleted" json:"is_deleted"`
	CreatedAt int64         `db:"created_at" json:"created_at"`
	UpdatedAt int64         `db:"updated_at" json:"updated_at"`
	Version   int           `db:"version" json:"version"`
}

// TableName returns the table name for Vehicle.
func (Vehicle) TableName() string {
	return string(TableVehicles)
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (v *Vehicle) CreatedAtTime() time.Time {
	return time.Unix(v.CreatedAt, 0)
}

// Init implements Row.
func (v *Vehicle) Init(id UUID, now int64) {
	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now
	v.Version = 1
	v.IsDeleted = false
}

// Touch updates the UpdatedAt timestamp and bumps the version.
func (v *Vehicle) Touch() {
	v.UpdatedAt = nowUnix()
	v.Version++
}

// RowID implements Row.
func (v *Vehicle) RowID() UUID { return v.ID }

// RowTable implements Row.
func (v *Vehicle) RowTable() Table { return TableVehicles }

// RowStatus implements Row.
func (v *Vehicle) RowStatus() string { return string(v.Status) }

// CreatedAtUnix implements Row.
func (v *Vehicle) CreatedAtUnix() int64 { return v.CreatedAt }

// SearchableText implements Row.
func (v *Vehicle) SearchableText() []string {
	return []string{v.Title, v.Make, v.Model, v.City}
}

// CategoricalField implements Row.
func (v *Vehicle) CategoricalField(name string) (string, bool) {
	switch name {
	case "status":
		return string(v.Status), true
	case "city":
		return v.City, true
	case "make":
		return v.Make, true
	case "fuel_type":
		return v.FuelType, true
	}
	return "", false
}

// PriceAmount implements Row.
func (v *Vehicle) PriceAmount() (float64, bool) { return v.Price, true }
