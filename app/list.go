// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// ListState is the local view of one remote collection. It is owned by
// exactly one ListController and must only change through its operations.
type ListState struct {
	Items    []resource.Record
	Loading  bool
	Selected *resource.Record // detail overlay projection, mirrors Items
}

// ListController keeps a local collection in sync with a remote one through
// load, delete and toggle operations. Every mutation is commit-on-confirm:
// local state changes only after the remote call succeeded, and a failed
// call leaves the local state in its last-known-good form with a user
// notice raised instead.
//
// Operations on different ids may be issued concurrently and commit
// independently by id. Overlapping mutations on the SAME id are not
// serialized or detected; the last remote acknowledgment wins the local
// write. Callers needing strict per-id ordering must not overlap them.
type ListController struct {
	name    string // collection name, used in notices, logs and metrics
	api     ports.Collection
	notify  ports.Notifier
	logger  zerolog.Logger
	metrics *metrics.Collector // optional

	mu     sync.Mutex
	state  ListState
	closed bool
}

// NewListController creates a controller for one view's lifetime over the
// named collection. The metrics collector may be nil.
func NewListController(name string, api ports.Collection, notify ports.Notifier, logger zerolog.Logger, m *metrics.Collector) *ListController {
	return &ListController{
		name:    name,
		api:     api,
		notify:  notify,
		logger:  logger.With().Str("service", "list").Str("collection", name).Logger(),
		metrics: m,
	}
}

// State returns a snapshot of the local state. Items share record storage
// with the controller; treat the snapshot as read-only.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ListState{Loading: c.state.Loading}
	s.Items = make([]resource.Record, len(c.state.Items))
	copy(s.Items, c.state.Items)
	if c.state.Selected != nil {
		sel := c.state.Selected.Clone()
		s.Selected = &sel
	}
	return s
}

// Close disposes the controller when its view unmounts. In-flight remote
// calls cannot be aborted; their late completions are discarded instead of
// writing into the disposed state.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Load replaces the local items with the full remote collection. On any
// failure the items are left untouched and an error notice is raised; the
// call is never retried automatically.
func (c *ListController) Load(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Loading = true
	c.mu.Unlock()

	items, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Loading = false

	if err != nil {
		c.fail("load", err, fmt.Sprintf("failed to load %s", c.name))
		return
	}

	c.state.Items = items
	c.commit("load")
}

// Delete removes one record, remote first. Only after the remote confirmed
// does the matching record leave Items; if it was selected the selection is
// cleared in the same transition so the overlay never shows a removed
// record.
func (c *ListController) Delete(ctx context.Context, id string) {
	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if err != nil {
		c.fail("delete", err, fmt.Sprintf("failed to delete %s record", c.name))
		return
	}

	items, removed := resource.RemoveByID(c.state.Items, id)
	c.state.Items = items
	if c.state.Selected != nil && c.state.Selected.ID == id {
		c.state.Selected = nil
	}
	if !removed {
		// Remote accepted an id the local view never held; nothing to
		// reconcile but the remote state did change.
		c.logger.Warn().Str("id", id).Msg("deleted record was not in local items")
	}
	c.commit("delete")
	c.notify.Success(fmt.Sprintf("%s record deleted", c.name))
}

// Toggle inverts a boolean field on one record, remote first. On success
// the field flips on the matching item and, when that record is selected,
// on the selection in the same step, so the overlay reflects the change
// without a reload.
func (c *ListController) Toggle(ctx context.Context, id, field string) {
	err := c.api.Toggle(ctx, id, field)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if err != nil {
		c.fail("toggle", err, fmt.Sprintf("failed to update %s record", c.name))
		return
	}

	if i := resource.IndexByID(c.state.Items, id); i >= 0 {
		flipped, ok := c.state.Items[i].Flip(field)
		if !ok {
			c.fail("toggle", nil, fmt.Sprintf("%s records have no field %q", c.name, field))
			return
		}
		c.state.Items[i] = flipped
	} else {
		// Remote accepted an id the local view never held; nothing to
		// reconcile but the remote state did change.
		c.logger.Warn().Str("id", id).Msg("toggled record was not in local items")
	}
	if c.state.Selected != nil && c.state.Selected.ID == id {
		if flipped, ok := c.state.Selected.Flip(field); ok {
			c.state.Selected = &flipped
		}
	}
	c.commit("toggle")
}

// Select projects one record into the detail overlay. Pure local
// transition, no remote call.
func (c *ListController) Select(r resource.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	sel := r.Clone()
	c.state.Selected = &sel
}

// Deselect closes the detail overlay.
func (c *ListController) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = nil
}

// fail raises the user notice for a failed operation: the envelope message
// when the remote reported one, otherwise the generic fallback.
func (c *ListController) fail(op string, err error, fallback string) {
	msg := fallback
	var envErr *ports.EnvelopeError
	if errors.As(err, &envErr) && envErr.Message != "" {
		msg = envErr.Message
	}

	c.logger.Warn().Err(err).Str("op", op).Msg("list operation failed")
	if c.metrics != nil {
		c.metrics.ListMutations.WithLabelValues(c.name, op, "rejected").Inc()
	}
	c.notify.Error(msg)
}

func (c *ListController) commit(op string) {
	c.logger.Debug().Str("op", op).Int("items", len(c.state.Items)).Msg("list state committed")
	if c.metrics != nil {
		c.metrics.ListMutations.WithLabelValues(c.name, op, "committed").Inc()
	}
}
