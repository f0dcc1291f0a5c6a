package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/askhub/askhub/adapters/memory"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

func rec(id string, active bool) resource.Record {
	return resource.Record{
		ID:    id,
		Flags: map[string]bool{resource.FieldActive: active},
	}
}

func TestCollection_ListDeleteToggle(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCollection(rec("1", true), rec("2", false))

	items, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	if err := c.Toggle(ctx, "2", resource.FieldActive); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	items, _ = c.List(ctx)
	if !items[1].Active() {
		t.Error("toggle did not flip record 2")
	}

	if err := c.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	items, _ = c.List(ctx)
	if len(items) != 1 || items[0].ID != "2" {
		t.Errorf("items = %v, want only record 2", items)
	}
}

func TestCollection_MissingRecordReportsEnvelope(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCollection(rec("1", true))

	var envErr *ports.EnvelopeError
	if err := c.Delete(ctx, "9"); !errors.As(err, &envErr) {
		t.Errorf("Delete of absent id: err = %v, want EnvelopeError", err)
	}
	if err := c.Toggle(ctx, "9", resource.FieldActive); !errors.As(err, &envErr) {
		t.Errorf("Toggle of absent id: err = %v, want EnvelopeError", err)
	}
	if err := c.Toggle(ctx, "1", "bogus"); !errors.As(err, &envErr) {
		t.Errorf("Toggle of bogus field: err = %v, want EnvelopeError", err)
	}
}

func TestCollection_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCollection(rec("1", true))

	items, _ := c.List(ctx)
	items[0].Flags[resource.FieldActive] = false

	again, _ := c.List(ctx)
	if !again[0].Active() {
		t.Error("caller mutation leaked into the collection")
	}
}
