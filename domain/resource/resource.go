// Package resource provides the record value type admin list views manage
// and pure helpers over record collections.
package resource

// FieldActive is the activation flag every managed collection carries.
const FieldActive = "is_activate"

// Record is one entry of a remotely sourced collection (value type).
// Flags hold the boolean fields a controller may toggle; Attrs hold
// open-ended display attributes. Identity is ID alone.
type Record struct {
	ID    string
	Flags map[string]bool
	Attrs map[string]string
}

// Active reports the activation flag.
func (r Record) Active() bool {
	return r.Flags[FieldActive]
}

// Attr returns a display attribute, empty when absent.
func (r Record) Attr(name string) string {
	return r.Attrs[name]
}

// Clone returns a deep copy so one record can be projected (e.g. into a
// detail overlay) without sharing map state with the collection.
func (r Record) Clone() Record {
	c := Record{ID: r.ID}
	if r.Flags != nil {
		c.Flags = make(map[string]bool, len(r.Flags))
		for k, v := range r.Flags {
			c.Flags[k] = v
		}
	}
	if r.Attrs != nil {
		c.Attrs = make(map[string]string, len(r.Attrs))
		for k, v := range r.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}

// Flip returns a copy of the record with the named boolean field inverted.
// The second result is false when the record has no such field.
func (r Record) Flip(field string) (Record, bool) {
	if _, ok := r.Flags[field]; !ok {
		return r, false
	}
	c := r.Clone()
	c.Flags[field] = !c.Flags[field]
	return c, true
}

// RemoveByID returns the collection without the matching record, preserving
// the relative order of everything else. The second result is false when no
// record matched; the input slice is never mutated.
func RemoveByID(items []Record, id string) ([]Record, bool) {
	for i, r := range items {
		if r.ID == id {
			out := make([]Record, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out, true
		}
	}
	return items, false
}

// IndexByID returns the position of the matching record, or -1.
func IndexByID(items []Record, id string) int {
	for i, r := range items {
		if r.ID == id {
			return i
		}
	}
	return -1
}
