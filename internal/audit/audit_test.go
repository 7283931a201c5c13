package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

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

func TestRecordAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Record(ctx, Entry{
		ActorType: ActorOperator,
		ActorID:   "sess-1",
		Action:    ActionZonesFiltered,
		Scope:     "session",
		ScopeID:   "sess-1",
		Summary:   "Zonas seleccionadas: CG-NORTE | Pullings: 3",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	entries, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != ActionZonesFiltered {
		t.Errorf("unexpected action %q", entries[0].Action)
	}
}

func TestListFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Record(ctx, Entry{ActorID: "worker", Action: ActionDatasetImported, Scope: "dataset", ScopeID: "ds1"})
	store.Record(ctx, Entry{ActorID: "sess-1", Action: ActionZonesFiltered, Scope: "session", ScopeID: "s1"})
	store.Record(ctx, Entry{ActorID: "sess-1", Action: ActionPlanGenerated, Scope: "session", ScopeID: "s1"})

	byAction, err := store.List(ctx, ListFilter{Action: ActionZonesFiltered})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byAction) != 1 {
		t.Errorf("expected 1 entry by action, got %d", len(byAction))
	}

	byScope, err := store.List(ctx, ListFilter{Scope: "session"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byScope) != 2 {
		t.Errorf("expected 2 session entries, got %d", len(byScope))
	}

	limited, err := store.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestListRoute(t *testing.T) {
	store := setupTestStore(t)
	store.Record(context.Background(), Entry{ActorID: "worker", Action: ActionDatasetImported, Scope: "dataset"})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}
