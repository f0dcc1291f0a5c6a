package memory

import (
	"context"
	"sync"

	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// Collection is an in-memory implementation of ports.Collection.
type Collection struct {
	mu    sync.RWMutex
	items []resource.Record
}

// NewCollection creates a collection seeded with the given records.
func NewCollection(items ...resource.Record) *Collection {
	c := &Collection{items: make([]resource.Record, 0, len(items))}
	for _, r := range items {
		c.items = append(c.items, r.Clone())
	}
	return c
}

// List returns the full collection.
func (c *Collection) List(ctx context.Context) ([]resource.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]resource.Record, 0, len(c.items))
	for _, r := range c.items {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Delete removes one record by id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, removed := resource.RemoveByID(c.items, id)
	if !removed {
		return &ports.EnvelopeError{Message: "record not found"}
	}
	c.items = items
	return nil
}

// Toggle inverts a boolean field on one record.
func (c *Collection) Toggle(ctx context.Context, id, field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := resource.IndexByID(c.items, id)
	if i < 0 {
		return &ports.EnvelopeError{Message: "record not found"}
	}
	flipped, ok := c.items[i].Flip(field)
	if !ok {
		return &ports.EnvelopeError{Message: "no such field"}
	}
	c.items[i] = flipped
	return nil
}

// Ensure interface compliance.
var _ ports.Collection = (*Collection)(nil)
