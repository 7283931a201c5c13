package dataset

import (
	"context"
	"reflect"
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

func testWells() []Well {
	return []Well{
		{Pozo: "PZ-01", Zona: "CG-NORTE", Lat: -45.9, Lon: -67.5, Neta: 18.5, PlannedHours: 6, Bateria: "BAT-3", ProdDate: "2026-08-24", Rubro: RubroEsperaTractor},
		{Pozo: "PZ-02", Zona: "CG-SUR", Lat: -45.8, Lon: -67.4, Neta: 9.2, PlannedHours: 4, Bateria: "BAT-1", ProdDate: "2026-08-24", Rubro: RubroEsperaTractor},
		{Pozo: "PZ-03", Zona: "CG-NORTE", Lat: -45.7, Lon: -67.3, Neta: 12.0, PlannedHours: 5, Bateria: "BAT-3", ProdDate: "2026-08-24", Rubro: RubroEsperaTractor},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Dataset{
		Name:       "plan-semana-34",
		SourceFile: "plan.xlsx",
		Preview:    []PreviewRow{{Pozo: "PZ-01", Zona: "CG-NORTE", Neta: 18.5}},
	}, testWells())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.WellCount != 3 {
		t.Errorf("expected well count 3, got %d", created.WellCount)
	}

	fetched, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected dataset, got nil")
	}
	if fetched.Name != "plan-semana-34" {
		t.Errorf("unexpected name %q", fetched.Name)
	}
	if len(fetched.Preview) != 1 || fetched.Preview[0].Pozo != "PZ-01" {
		t.Errorf("unexpected preview: %+v", fetched.Preview)
	}
}

func TestGetMissing(t *testing.T) {
	store := setupTestStore(t)
	ds, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ds != nil {
		t.Errorf("expected nil dataset, got %+v", ds)
	}
}

func TestZones(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Dataset{Name: "plan"}, testWells())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	zones, err := store.Zones(ctx, created.ID)
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	want := []string{"CG-NORTE", "CG-SUR"}
	if !reflect.DeepEqual(zones, want) {
		t.Errorf("expected %v, got %v", want, zones)
	}
}

func TestWellsByZones(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Dataset{Name: "plan"}, testWells())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wells, err := store.WellsByZones(ctx, created.ID, []string{"CG-NORTE"})
	if err != nil {
		t.Fatalf("WellsByZones: %v", err)
	}
	if len(wells) != 2 {
		t.Fatalf("expected 2 wells, got %d", len(wells))
	}
	// Ordered by well name.
	if wells[0].Pozo != "PZ-01" || wells[1].Pozo != "PZ-03" {
		t.Errorf("unexpected order: %s, %s", wells[0].Pozo, wells[1].Pozo)
	}

	none, err := store.WellsByZones(ctx, created.ID, nil)
	if err != nil {
		t.Fatalf("WellsByZones(empty): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no wells for empty zone list, got %d", len(none))
	}
}

func TestWellMap(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Dataset{Name: "plan"}, testWells())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m, err := store.WellMap(ctx, created.ID)
	if err != nil {
		t.Fatalf("WellMap: %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("expected 3 wells, got %d", len(m))
	}
	if m["PZ-02"].Zona != "CG-SUR" {
		t.Errorf("unexpected well: %+v", m["PZ-02"])
	}
}
