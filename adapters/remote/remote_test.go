package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/askhub/askhub/adapters/metrics"
	"github.com/askhub/askhub/adapters/remote"
	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/ports"
)

func newCollection(t *testing.T, handler http.HandlerFunc) *remote.Collection {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := remote.NewClient(remote.ClientConfig{BaseURL: srv.URL})
	return remote.NewCollection(client, "users")
}

func TestCollection_List(t *testing.T) {
	c := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "username": "alice", "email": "a@x.edu", "is_activate": true},
				{"id": 2, "username": "bob", "email": "b@x.edu", "is_activate": false}
			]
		}`))
	})

	records, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "1" || records[0].Attr("username") != "alice" {
		t.Errorf("record 0 = %+v, want id 1 username alice", records[0])
	}
	if !records[0].Active() || records[1].Active() {
		t.Error("activation flags not decoded")
	}
}

func TestCollection_ListEnvelopeFailure(t *testing.T) {
	c := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "database unavailable"}`))
	})

	_, err := c.List(context.Background())
	var envErr *ports.EnvelopeError
	if !errors.As(err, &envErr) {
		t.Fatalf("err = %v, want EnvelopeError", err)
	}
	if envErr.Message != "database unavailable" {
		t.Errorf("message = %q, want the envelope message", envErr.Message)
	}
}

func TestCollection_DeleteAndToggle(t *testing.T) {
	var gotToggle string
	c := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == "DELETE" && r.URL.Path == "/api/users/7":
			w.Write([]byte(`{"success": true}`))
		case r.Method == "POST" && r.URL.Path == "/api/users/7/toggle":
			var body struct {
				Field string `json:"field"`
			}
			if err := jsonDecode(r, &body); err != nil {
				t.Errorf("decode toggle body: %v", err)
			}
			gotToggle = body.Field
			w.Write([]byte(`{"success": true}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.Write([]byte(`{"success": false}`))
		}
	})

	if err := c.Delete(context.Background(), "7"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if err := c.Toggle(context.Background(), "7", resource.FieldActive); err != nil {
		t.Errorf("Toggle failed: %v", err)
	}
	if gotToggle != resource.FieldActive {
		t.Errorf("toggle field = %q, want %q", gotToggle, resource.FieldActive)
	}
}

func TestCollection_ServerErrorIsTransportFailure(t *testing.T) {
	c := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.Delete(context.Background(), "7")
	if err == nil {
		t.Fatal("expected error")
	}
	var envErr *ports.EnvelopeError
	if errors.As(err, &envErr) {
		t.Error("500 without envelope must not surface as an envelope failure")
	}
	var transErr *remote.TransportError
	if !errors.As(err, &transErr) {
		t.Errorf("err = %v, want TransportError", err)
	}
}

func TestCollection_UnreachableBackend(t *testing.T) {
	client := remote.NewClient(remote.ClientConfig{BaseURL: "http://127.0.0.1:1"})
	c := remote.NewCollection(client, "users")

	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestCollection_RecordsCallMetrics(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := newCollection(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case "GET":
			w.Write([]byte(`{"success": true, "data": []}`))
		default:
			w.Write([]byte(`{"success": false, "message": "record not found"}`))
		}
	}).WithMetrics(m)

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if err := c.Delete(context.Background(), "7"); err == nil {
		t.Fatal("expected envelope failure")
	}

	if got := testutil.ToFloat64(m.RemoteCalls.WithLabelValues("users", "list", "ok")); got != 1 {
		t.Errorf("list ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RemoteCalls.WithLabelValues("users", "delete", "envelope_error")); got != 1 {
		t.Errorf("delete envelope_error count = %v, want 1", got)
	}
}

func jsonDecode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
