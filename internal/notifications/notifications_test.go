package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"wellpull/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Notification{
		Type:    TypeImportCompleted,
		Title:   "Importación completada",
		Message: "plan.xlsx: 42 pozos",
		Payload: map[string]string{"dataset_id": "ds1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Severity != SeverityInfo {
		t.Errorf("expected default severity info, got %s", created.Severity)
	}

	list, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	if list[0].Payload["dataset_id"] != "ds1" {
		t.Errorf("unexpected payload: %+v", list[0].Payload)
	}
}

func TestDispatchWithoutWebhook(t *testing.T) {
	store := setupTestStore(t)
	d := NewDispatcher(store, "")

	err := d.Dispatch(context.Background(), Notification{
		Type:  TypeImportFailed,
		Title: "Importación fallida",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	list, _ := store.List(context.Background(), ListFilter{})
	if len(list) != 1 {
		t.Fatalf("expected notification persisted, got %d", len(list))
	}
	if list[0].Delivered {
		t.Error("expected not delivered without webhook")
	}
}

func TestDispatchWithWebhook(t *testing.T) {
	store := setupTestStore(t)

	var received int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		atomic.AddInt32(&received, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(store, srv.URL)
	err := d.Dispatch(context.Background(), Notification{
		Type:  TypeImportCompleted,
		Title: "Importación completada",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if atomic.LoadInt32(&received) != 1 {
		t.Errorf("expected 1 webhook call, got %d", received)
	}

	list, _ := store.List(context.Background(), ListFilter{})
	if len(list) != 1 || !list[0].Delivered {
		t.Error("expected notification marked delivered")
	}
}

func TestDispatchWebhookFailure(t *testing.T) {
	store := setupTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(store, srv.URL)
	err := d.Dispatch(context.Background(), Notification{Type: TypeImportCompleted, Title: "x"})
	if err == nil {
		t.Fatal("expected error on non-2xx webhook response")
	}

	// Notification persists even when delivery fails.
	list, _ := store.List(context.Background(), ListFilter{})
	if len(list) != 1 {
		t.Fatalf("expected notification persisted, got %d", len(list))
	}
	if list[0].Delivered {
		t.Error("expected not delivered on failure")
	}
}
