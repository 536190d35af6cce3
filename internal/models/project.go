package models

import "time"

// ProjectStatus is the lifecycle status of a construction project.
type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectDone       ProjectStatus = "done"
	ProjectSuspended  ProjectStatus = "suspended"
)

// Valid reports whether the status is one of the closed set.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectInProgress, ProjectDone, ProjectSuspended:
		return true
	}
	return false
}

// Project represents a construction or renovation project.
type Project struct {
	ID          UUID          `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description,omitempty"`
	Category    string        `db:"category" json:"category"`
	City        string        `db:"city" json:"city"`
	Budget      float64       `db:"budget" json:"budget,omitempty"`
	MediaURLs   string        `db:"media_urls" json:"media_urls,omitempty"` // Comma-separated
	Status      ProjectStatus `db:"status" json:"status"`
	IsDeleted   bool          `db:"is_deleted" json:"is_deleted"`
	CreatedAt   int64         `db:"created_at" json:"created_at"`
	UpdatedAt   int64         `db:"updated_at" json:"updated_at"`
	Version     int           `db:"version" json:"version"`
}

// TableName returns the table name for Project.
func (Project) TableName() string {
	return string(TableProjects)
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (p *Project) CreatedAtTime() time.Time {
	return time.Unix(p.CreatedAt, 0)
}

// Init implements Row.
func (p *Project) Init(id UUID, now int64) {
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1
	p.IsDeleted = false
}

// Touch updates the UpdatedAt timestamp and bumps the version.
func (p *Project) Touch() {
	p.UpdatedAt = nowUnix()
	p.Version++
}

// RowID implements Row.
func (p *Project) RowID() UUID { return p.ID }

// RowTable implements Row.
func (p *Project) RowTable() Table { return TableProjects }

// RowStatus implements Row.
func (p *Project) RowStatus() string { return string(p.Status) }

// CreatedAtUnix implements Row.
func (p *Project) CreatedAtUnix() int64 { return p.CreatedAt }

// SearchableText implements Row.
func (p *Project) SearchableText() []string {
	return []string{p.Title, p.Description, p.City}
}

// CategoricalField implements Row.
func (p *Project) CategoricalField(name string) (string, bool) {
	switch name {
	case "status":
		return string(p.Status), true
	case "city":
		return p.City, true
	case "category":
		return p.Category, true
	}
	return "", false
}

// PriceAmount implements Row. A project's budget plays the price role.
func (p *Project) PriceAmount() (float64, bool) { return p.Budget, true }
