// Package domain contains the catalog entities and circulation logic for the Stackroom library server.
package domain

import "time"

// Base provides the identifier and timestamps shared by every catalog entity.
// Equality between entities is defined by natural business keys (see the
// SameAs methods), never by ID: two in-memory instances with the same
// natural key are the same entity even before persistence.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (b *Base) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}
