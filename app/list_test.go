package app_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/askhub/askhub/app"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

// mockCollection implements ports.Collection for testing.
type mockCollection struct {
	mu      sync.Mutex
	items   []resource.Record
	listErr error
	delErr  error
	togErr  error

	deleted []string
	toggled []string

	listGate chan struct{} // when set, List blocks until the gate closes
}

func (m *mockCollection) List(ctx context.Context) ([]resource.Record, error) {
	if m.listGate != nil {
		<-m.listGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]resource.Record, len(m.items))
	for i, r := range m.items {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *mockCollection) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCollection) Toggle(ctx context.Context, id, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.togErr != nil {
		return m.togErr
	}
	m.toggled = append(m.toggled, id+"/"+field)
	return nil
}

// recordingNotifier implements ports.Notifier for testing.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func user(id string, active bool) resource.Record {
	return resource.Record{
		ID:    id,
		Flags: map[string]bool{resource.FieldActive: active},
		Attrs: map[string]string{"username": "user" + id},
	}
}

func newController(api *mockCollection, notify *recordingNotifier) *app.ListController {
	return app.NewListController("users", api, notify, zerolog.Nop(), nil)
}

func TestLoad_ReplacesItems(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", false)}}
	notify := &recordingNotifier{}
	c := newController(api, notify)

	c.Load(context.Background())

	s := c.State()
	if s.Loading {
		t.Error("loading flag still set after load")
	}
	if len(s.Items) != 2 || s.Items[0].ID != "1" || s.Items[1].ID != "2" {
		t.Fatalf("items = %v, want user1, user2", s.Items)
	}
	if notify.errorCount() != 0 {
		t.Errorf("unexpected error notices: %v", notify.errors)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", false)}}
	c := newController(api, &recordingNotifier{})

	c.Load(context.Background())
	first := c.State().Items
	c.Load(context.Background())
	second := c.State().Items

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two loads over an unchanged collection differ:\n%v\n%v", first, second)
	}
}

func TestLoad_FailureKeepsLastKnownGood(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true)}}
	notify := &recordingNotifier{}
	c := newController(api, notify)

	c.Load(context.Background())

	api.mu.Lock()
	api.listErr = &ports.EnvelopeError{Message: "backend rebooting"}
	api.mu.Unlock()
	c.Load(context.Background())

	s := c.State()
	if s.Loading {
		t.Error("loading flag still set after failed load")
	}
	if len(s.Items) != 1 || s.Items[0].ID != "1" {
		t.Errorf("items changed on failed load: %v", s.Items)
	}
	if notify.errorCount() != 1 || notify.errors[0] != "backend rebooting" {
		t.Errorf("error notices = %v, want the envelope message", notify.errors)
	}
}

func TestLoad_TransportFailureUsesGenericMessage(t *testing.T) {
	api := &mockCollection{listErr: errors.New("dial tcp: connection refused")}
	notify := &recordingNotifier{}
	c := newController(api, notify)

	c.Load(context.Background())

	if notify.errorCount() != 1 {
		t.Fatalf("error notices = %v, want exactly one", notify.errors)
	}
	if notify.errors[0] != "failed to load users" {
		t.Errorf("notice = %q, want the generic fallback", notify.errors[0])
	}
}

func TestDelete_RemovesExactlyOneInOrder(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", true), user("3", false)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())

	c.Delete(context.Background(), "2")

	s := c.State()
	if len(s.Items) != 2 || s.Items[0].ID != "1" || s.Items[1].ID != "3" {
		t.Errorf("items = %v, want [1 3] in original order", s.Items)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "2" {
		t.Errorf("remote deletes = %v, want [2]", api.deleted)
	}
}

func TestDelete_FailureLeavesItemsUnchanged(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", true)}}
	notify := &recordingNotifier{}
	c := newController(api, notify)
	c.Load(context.Background())
	before := c.State().Items

	api.mu.Lock()
	api.delErr = &ports.EnvelopeError{Message: "record is referenced"}
	api.mu.Unlock()
	c.Delete(context.Background(), "1")

	after := c.State().Items
	if !reflect.DeepEqual(before, after) {
		t.Errorf("items changed on failed delete:\nbefore %v\nafter  %v", before, after)
	}
	if notify.errorCount() != 1 || notify.errors[0] != "record is referenced" {
		t.Errorf("error notices = %v, want the envelope message", notify.errors)
	}
}

func TestDelete_ClearsSelection(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", true)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())

	c.Select(c.State().Items[0])
	c.Delete(context.Background(), "1")

	s := c.State()
	if s.Selected != nil {
		t.Error("selection still references a deleted record")
	}

	// Deleting a record that is not selected keeps the selection.
	c.Select(s.Items[0]) // user 2
	c.Load(context.Background())
	api.mu.Lock()
	api.items = []resource.Record{user("2", true), user("3", true)}
	api.mu.Unlock()
	c.Load(context.Background())
	c.Delete(context.Background(), "3")
	if sel := c.State().Selected; sel == nil || sel.ID != "2" {
		t.Errorf("selection = %v, want user 2 kept", sel)
	}
}

func TestToggle_FlipsOnlyMatchingRecord(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", true)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())

	c.Toggle(context.Background(), "1", resource.FieldActive)

	s := c.State()
	if s.Items[0].Active() {
		t.Error("record 1 activation not flipped")
	}
	if !s.Items[1].Active() {
		t.Error("record 2 activation flipped, must be untouched")
	}
	if len(api.toggled) != 1 || api.toggled[0] != "1/is_activate" {
		t.Errorf("remote toggles = %v, want [1/is_activate]", api.toggled)
	}
}

func TestToggle_SyncsSelection(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true), user("2", true)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())
	c.Select(c.State().Items[0])

	c.Toggle(context.Background(), "1", resource.FieldActive)

	s := c.State()
	if s.Selected == nil {
		t.Fatal("selection lost")
	}
	if s.Selected.Active() {
		t.Error("overlay still shows the pre-toggle value")
	}
	if s.Items[0].Active() != s.Selected.Active() {
		t.Error("selection does not mirror items")
	}

	// Toggling a different record leaves the selection alone.
	c.Toggle(context.Background(), "2", resource.FieldActive)
	if c.State().Selected.Active() {
		t.Error("selection changed for a foreign toggle")
	}
}

func TestToggle_FailureLeavesStateUnchanged(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true)}}
	notify := &recordingNotifier{}
	c := newController(api, notify)
	c.Load(context.Background())
	c.Select(c.State().Items[0])
	before := c.State()

	api.mu.Lock()
	api.togErr = errors.New("network down")
	api.mu.Unlock()
	c.Toggle(context.Background(), "1", resource.FieldActive)

	after := c.State()
	if !reflect.DeepEqual(before.Items, after.Items) {
		t.Error("items changed on failed toggle")
	}
	if after.Selected == nil || !after.Selected.Active() {
		t.Error("selection changed on failed toggle")
	}
	if notify.errorCount() != 1 {
		t.Errorf("error notices = %v, want exactly one", notify.errors)
	}
}

// A confirmed toggle for an id the local view never held commits without a
// local write and without raising an error notice.
func TestToggle_UnknownIDLeavesItemsUntouched(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true)}}
	notify := &recordingNotifier{}
	c := newController(api, notify)
	c.Load(context.Background())
	before := c.State()

	c.Toggle(context.Background(), "99", resource.FieldActive)

	after := c.State()
	if !reflect.DeepEqual(before.Items, after.Items) {
		t.Error("items changed for an unknown id")
	}
	if notify.errorCount() != 0 {
		t.Errorf("unexpected error notices: %v", notify.errors)
	}
	if len(api.toggled) != 1 || api.toggled[0] != "99/"+resource.FieldActive {
		t.Fatalf("remote toggles = %v, want exactly 99/%s", api.toggled, resource.FieldActive)
	}
}

func TestSelectDeselect(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())

	c.Select(c.State().Items[0])
	if sel := c.State().Selected; sel == nil || sel.ID != "1" {
		t.Fatalf("selection = %v, want user 1", sel)
	}

	c.Deselect()
	if c.State().Selected != nil {
		t.Error("selection survives deselect")
	}
	if len(api.deleted) != 0 || len(api.toggled) != 0 {
		t.Error("select/deselect made remote calls")
	}
}

// A Load resolving after the controller was closed must not write into the
// disposed state.
func TestClose_DiscardsLateCommit(t *testing.T) {
	gate := make(chan struct{})
	api := &mockCollection{
		items:    []resource.Record{user("1", true)},
		listGate: gate,
	}
	c := newController(api, &recordingNotifier{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Load(context.Background())
	}()

	c.Close()
	close(gate)
	<-done

	if items := c.State().Items; len(items) != 0 {
		t.Errorf("late load wrote %v into a closed controller", items)
	}
}

func TestClosedControllerIgnoresMutations(t *testing.T) {
	api := &mockCollection{items: []resource.Record{user("1", true)}}
	c := newController(api, &recordingNotifier{})
	c.Load(context.Background())
	c.Close()

	c.Delete(context.Background(), "1")
	c.Toggle(context.Background(), "1", resource.FieldActive)

	s := c.State()
	if len(s.Items) != 1 || !s.Items[0].Active() {
		t.Errorf("closed controller state changed: %v", s.Items)
	}
}
