package models

import "time"

// TestimonialStatus is the moderation status of a testimonial.
type TestimonialStatus string

const (
	TestimonialPending  TestimonialStatus = "pending"
	TestimonialApproved TestimonialStatus = "approved"
	TestimonialRejected TestimonialStatus = "rejected"
)

// Valid reports whether the status is one of the closed set.
func (s TestimonialStatus) Valid() bool {
	switch s {
	case TestimonialPending, TestimonialApproved, TestimonialRejected:
		return true
	}
	return false
}

// Testimonial represents a customer testimonial awaiting or past moderation.
type Testimonial struct {
	ID        UUID              `db:"id" json:"id"`
	Author    string            `db:"author" json:"author"`
	Message   string            `db:"message" json:"message"`
	Rating    int               `db:"rating" json:"rating,omitempty"`
	Status    TestimonialStatus `db:"status" json:"status"`
	IsDeleted bool              `db:"is_deleted" json:"is_deleted"`
	CreatedAt int64             `db:"created_at" json:"created_at"`
	UpdatedAt int64             `db:"updated_at" json:"updated_at"`
	Version   int               `db:"version" json:"version"`
}

// TableName returns the table name for Testimonial.
func (Testimonial) TableName() string {
	return string(TableTestimonials)
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (t *Testimonial) CreatedAtTime() time.Time {
	return time.Unix(t.CreatedAt, 0)
}

// Init implements Row.
func (t *Testimonial) Init(id UUID, now int64) {
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Version = 1
	t.IsDeleted = false
}

// Touch updates the UpdatedAt timestamp and bumps the version.
func (t *Testimonial) Touch() {
	t.UpdatedAt = nowUnix()
	t.Version++
}

// RowID implements Row.
func (t *Testimonial) RowID() UUID { return t.ID }

// RowTable implements Row.
func (t *Testimonial) RowTable() Table { return TableTestimonials }

// RowStatus implements Row.
func (t *Testimonial) RowStatus() string { return string(t.Status) }

// CreatedAtUnix implements Row.
func (t *Testimonial) CreatedAtUnix() int64 { return t.CreatedAt }

// SearchableText implements Row.
func (t *Testimonial) SearchableText() []string {
	return []string{t.Author, t.Message}
}

// CategoricalField implements Row.
func (t *Testimonial) CategoricalField(name string) (string, bool) {
	if name == "status" {
		return string(t.Status), true
	}
	return "", false
}

// PriceAmount implements Row. Testimonials are not priced.
func (t *Testimonial) PriceAmount() (float64, bool) { return 0, false }
