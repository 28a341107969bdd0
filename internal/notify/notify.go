// Package notify is the dismissible-notification bus: every terminal job
// transition, upload outcome, and bulk-update outcome lands here so the
// dashboard can surface it to the user.
package notify

import (
	"sync"
	"time"

	"github.com/amgohq/amgo/pkg/models"
)

type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

type Notification struct {
	ID          string    `json:"id"`
	Variant     Variant   `json:"variant"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bus collects notifications and expires them after a TTL, mirroring
// auto-dismissing toasts. Safe for concurrent use.
type Bus struct {
	mu    sync.Mutex
	items []Notification
	ttl   time.Duration
	now   func() time.Time
}

func NewBus(ttl time.Duration) *Bus {
	return &Bus{ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (b *Bus) Publish(variant Variant, title, description string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	b.items = append(b.items, Notification{
		ID:          models.NewID("ntf"),
		Variant:     variant,
		Title:       title,
		Description: description,
		CreatedAt:   b.now(),
	})
}

func (b *Bus) Info(title, description string)    { b.Publish(VariantInfo, title, description) }
func (b *Bus) Success(title, description string) { b.Publish(VariantSuccess, title, description) }
func (b *Bus) Warning(title, description string) { b.Publish(VariantWarning, title, description) }
func (b *Bus) Error(title, description string)   { b.Publish(VariantError, title, description) }

// Recent returns the notifications that have not yet expired, oldest first.
func (b *Bus) Recent() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Dismiss removes a notification before its TTL elapses.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i:i], b.items[i+1:]...)
			return
		}
	}
}

// prune drops expired entries. Caller holds b.mu.
func (b *Bus) prune() {
	cutoff := b.now().Add(-b.ttl)
	kept := b.items[:0]
	for _, n := range b.items {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	b.items = kept
}
