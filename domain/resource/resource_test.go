package resource_test

import (
	"testing"

	"github.com/askhub/askhub/domain/resource"
)

func record(id string, active bool) resource.Record {
	return resource.Record{
		ID:    id,
		Flags: map[string]bool{resource.FieldActive: active},
		Attrs: map[string]string{"username": "u" + id},
	}
}

func TestRemoveByID(t *testing.T) {
	items := []resource.Record{record("1", true), record("2", true), record("3", false)}

	out, ok := resource.RemoveByID(items, "2")
	if !ok {
		t.Fatal("expected removal")
	}
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "3" {
		t.Errorf("out = %v, want [1 3] in order", out)
	}
	if len(items) != 3 {
		t.Error("input slice was mutated")
	}

	if _, ok := resource.RemoveByID(items, "9"); ok {
		t.Error("removal of absent id reported ok")
	}
}

func TestFlip(t *testing.T) {
	r := record("1", true)

	flipped, ok := r.Flip(resource.FieldActive)
	if !ok {
		t.Fatal("expected flip")
	}
	if flipped.Active() {
		t.Error("flag not inverted")
	}
	if !r.Active() {
		t.Error("original record was mutated")
	}

	if _, ok := r.Flip("no_such_field"); ok {
		t.Error("flip of unknown field reported ok")
	}
}

func TestClone(t *testing.T) {
	r := record("1", true)
	c := r.Clone()

	c.Flags[resource.FieldActive] = false
	c.Attrs["username"] = "other"

	if !r.Active() || r.Attr("username") != "u1" {
		t.Error("clone shares map state with original")
	}
}

func TestIndexByID(t *testing.T) {
	items := []resource.Record{record("1", true), record("2", false)}
	if i := resource.IndexByID(items, "2"); i != 1 {
		t.Errorf("IndexByID = %d, want 1", i)
	}
	if i := resource.IndexByID(items, "7"); i != -1 {
		t.Errorf("IndexByID absent = %d, want -1", i)
	}
}
