package models

import "time"

// Base carries the fields every stored record has.
type Base struct {
	ID            string    `json:"id" example:"6f1c2a4e-0b7d-4a51-9d43-3f0f5b7f8c21"`
	CreatedAt     time.Time `json:"createdAt" example:"2024-01-01T10:00:00Z"`
	UpdatedAt     time.Time `json:"updatedAt" example:"2024-01-02T15:30:00Z"`
	SchemaVersion int       `json:"schemaVersion" example:"1"`
}

// Meta gives generic code access to the embedded Base.
func (b *Base) Meta() *Base { return b }

// Record is implemented by every collection type.
type Record interface {
	Meta() *Base
	// CurrentSchema is the version stamped on write.
	CurrentSchema() int
	// Upgrade rewrites an older record in memory to the current schema.
	Upgrade()
}

// Checker is implemented by records with cross-field rules that struct tags
// cannot express.
type Checker interface {
	Check() error
}

// Touch sets timestamps and the schema version before a write.
func Touch(r Record, now time.Time, created bool) {
	m := r.Meta()
	if created || m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.SchemaVersion = r.CurrentSchema()
}

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin  RoleType = "admin"
	RoleViewer RoleType = "viewer"
)
