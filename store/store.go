// Package store keeps the short list of recently generated QR codes shown
// by the history view.
package store

import (
	"context"
	"time"
)

// DefaultLimit is how many entries a history keeps.
const DefaultLimit = 10

// Entry is one generated QR code.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"` // preview, see content.Preview
	Image     string    `json:"image"`   // data URL
	CreatedAt time.Time `json:"created_at"`
}

// History is a bounded, newest-first list of entries.
type History interface {
	// Add records e, evicting the oldest entries beyond the limit.
	Add(ctx context.Context, e Entry) error
	// List returns entries newest first.
	List(ctx context.Context) ([]Entry, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	Close() error
}
