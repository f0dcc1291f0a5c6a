package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// Collection speaks the backend's envelope contract for one resource kind.
//
// API Contract:
//
//	GET    /api/{name}              -> {"success": true, "data": [...]} | {"success": false, "message": "..."}
//	DELETE /api/{name}/{id}         -> {"success": true} | {"success": false, "message": "..."}
//	POST   /api/{name}/{id}/toggle  -> {"success": true} | {"success": false, "message": "..."}
//	       Request: {"field": "is_activate"}
type Collection struct {
	client  *Client
	name    string // resource segment: "users", "tags", "questions"
	metrics *metrics.Collector
}

// NewCollection creates a remote collection adapter for the named resource.
func NewCollection(client *Client, name string) *Collection {
	return &Collection{client: client, name: name}
}

// WithMetrics records call counts and latencies per operation. A nil
// collector disables recording.
func (c *Collection) WithMetrics(m *metrics.Collector) *Collection {
	c.metrics = m
	return c
}

// observe reports one backend call. Envelope failures count separately from
// transport failures so dashboards can tell a misbehaving backend from a
// dead one.
func (c *Collection) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	var envErr *ports.EnvelopeError
	switch {
	case err == nil:
	case errors.As(err, &envErr):
		outcome = "envelope_error"
	default:
		outcome = "transport_error"
	}
	c.metrics.RemoteCalls.WithLabelValues(c.name, op, outcome).Inc()
	c.metrics.RemoteDuration.WithLabelValues(c.name, op).Observe(time.Since(start).Seconds())
}

type listEnvelope struct {
	Success bool                     `json:"success"`
	Data    []map[string]interface{} `json:"data"`
	Message string                   `json:"message"`
}

type statusEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List fetches the full remote collection.
func (c *Collection) List(ctx context.Context) (_ []resource.Record, err error) {
	start := time.Now()
	defer func() { c.observe("list", start, err) }()

	var env listEnvelope
	if err := c.client.Request(ctx, "GET", "/api/"+c.name, nil, &env); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	if !env.Success {
		return nil, &ports.EnvelopeError{Message: env.Message}
	}

	records := make([]resource.Record, 0, len(env.Data))
	for _, row := range env.Data {
		records = append(records, decodeRecord(row))
	}
	return records, nil
}

// Delete removes one record by id.
func (c *Collection) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.observe("delete", start, err) }()

	var env statusEnvelope
	path := "/api/" + c.name + "/" + url.PathEscape(id)
	if err := c.client.Request(ctx, "DELETE", path, nil, &env); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	if !env.Success {
		return &ports.EnvelopeError{Message: env.Message}
	}
	return nil
}

// Toggle inverts a boolean field on one record.
func (c *Collection) Toggle(ctx context.Context, id, field string) (err error) {
	start := time.Now()
	defer func() { c.observe("toggle", start, err) }()

	var env statusEnvelope
	path := "/api/" + c.name + "/" + url.PathEscape(id) + "/toggle"
	body := map[string]string{"field": field}
	if err := c.client.Request(ctx, "POST", path, body, &env); err != nil {
		return fmt.Errorf("toggle %s/%s: %w", c.name, id, err)
	}
	if !env.Success {
		return &ports.EnvelopeError{Message: env.Message}
	}
	return nil
}

// decodeRecord maps one wire row onto the record model: "id" becomes the
// identity, boolean fields become flags, everything else scalar becomes a
// display attribute.
func decodeRecord(row map[string]interface{}) resource.Record {
	r := resource.Record{
		Flags: make(map[string]bool),
		Attrs: make(map[string]string),
	}
	for k, v := range row {
		if k == "id" {
			r.ID = stringify(v)
			continue
		}
		switch val := v.(type) {
		case bool:
			r.Flags[k] = val
		case string:
			r.Attrs[k] = val
		case float64:
			r.Attrs[k] = formatNumber(val)
		}
	}
	return r
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatNumber(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Ensure interface compliance.
var _ ports.Collection = (*Collection)(nil)
