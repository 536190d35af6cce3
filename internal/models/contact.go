package models

import "time"

// ContactStatus is the processing status of a contact message.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactProcessed  ContactStatus = "processed"
)

// Valid reports whether the status is one of the closed set.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactProcessed:
		return true
	}
	return false
}

// ContactMessage represents a message submitted through the contact form.
type ContactMessage struct {
	ID        UUID          `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Phone     string        `db:"phone" json:"phone,omitempty"`
	Subject   string        `db:"subject" json:"subject,omitempty"`
	Message   string        `db:"message" json:"message"`
	Status    ContactStatus `db:"status" json:"status"`
	IsDeleted bool          `db:"is_deleted" json:"is_deleted"`
	CreatedAt int64         `db:"created_at" json:"created_at"`
	UpdatedAt int64         `db:"updated_at" json:"updated_at"`
	Version   int           `db:"version" json:"version"`
}

// TableName returns the table name for ContactMessage.
func (ContactMessage) TableName() string {
	return string(TableContacts)
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (c *ContactMessage) CreatedAtTime() time.Time {
	return time.Unix(c.CreatedAt, 0)
}

// Init implements Row.
func (c *ContactMessage) Init(id UUID, now int64) {
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1
	c.IsDeleted = false
}

// Touch updates the UpdatedAt timestamp and bumps the version.
func (c *ContactMessage) Touch() {
	c.UpdatedAt = nowUnix()
	c.Version++
}

// RowID implements Row.
func (c *ContactMessage) RowID() UUID { return c.ID }

// RowTable implements Row.
func (c *ContactMessage) RowTable() Table { return TableContacts }

// RowStatus implements Row.
func (c *ContactMessage) RowStatus() string { return string(c.Status) }

// CreatedAtUnix implements Row.
func (c *ContactMessage) CreatedAtUnix() int64 { return c.CreatedAt }

// SearchableText implements Row.
func (c *ContactMessage) SearchableText() []string {
	return []string{c.Name, c.Email, c.Subject, c.Message}
}

// CategoricalField implements Row.
func (c *ContactMessage) CategoricalField(name string) (string, bool) {
	if name == "status" {
		return string(c.Status), true
	}
	return "", false
}

// PriceAmount implements Row. Contact messages are not priced.
func (c *ContactMessage) PriceAmount() (float64, bool) { return 0, false }
