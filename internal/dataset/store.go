package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellpull/internal/db"
)

// Store manages persistence of datasets and their wells.
type Store struct {
	db *db.DB
}

// NewStore creates a new dataset store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create persists a dataset together with its wells in one transaction.
func (s *Store) Create(ctx context.Context, ds Dataset, wells []Well) (*Dataset, error) {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	ds.WellCount = len(wells)
	ds.ImportedAt = time.Now().UTC()

	previewJSON, err := json.Marshal(ds.Preview)
	if err != nil {
		return nil, fmt.Errorf("marshalling preview: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, source_file, well_count, preview_json, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.SourceFile, ds.WellCount, string(previewJSON), ds.ImportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting dataset: %w", err)
	}

	for _, w := range wells {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO wells (dataset_id, pozo, zona, geo_latitude, geo_longitude, neta, planned_hours, bateria, prod_dt, rubro)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ds.ID, w.Pozo, w.Zona, w.Lat, w.Lon, w.Neta, w.PlannedHours, w.Bateria, w.ProdDate, w.Rubro,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting well %s: %w", w.Pozo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing dataset: %w", err)
	}
	return &ds, nil
}

// Get retrieves a dataset by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	var previewJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, source_file, well_count, preview_json, imported_at
		 FROM datasets WHERE id = ?`, id,
	).Scan(&ds.ID, &ds.Name, &ds.SourceFile, &ds.WellCount, &previewJSON, &ds.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}
	if err := json.Unmarshal([]byte(previewJSON), &ds.Preview); err != nil {
		return nil, fmt.Errorf("decoding preview: %w", err)
	}
	return &ds, nil
}

// Zones returns the distinct zones of a dataset, sorted.
func (s *Store) Zones(ctx context.Context, datasetID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT zona FROM wells WHERE dataset_id = ? ORDER BY zona`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []string
	for rows.Next() {
		var z string
		if err := rows.Scan(&z); err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// WellsByZones returns the wells of a dataset in the given zones, ordered
// by well name. An empty zone list returns no wells.
func (s *Store) WellsByZones(ctx context.Context, datasetID string, zones []string) ([]Well, error) {
	if len(zones) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(zones))
	placeholders = placeholders[:len(placeholders)-1]
	args := []interface{}{datasetID}
	for _, z := range zones {
		args = append(args, z)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT pozo, zona, geo_latitude, geo_longitude, neta, planned_hours, bateria, prod_dt, rubro
		 FROM wells WHERE dataset_id = ? AND zona IN (`+placeholders+`) ORDER BY pozo`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing wells: %w", err)
	}
	defer rows.Close()

	return scanWells(rows)
}

// WellMap returns all wells of a dataset keyed by well name.
func (s *Store) WellMap(ctx context.Context, datasetID string) (map[string]Well, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pozo, zona, geo_latitude, geo_longitude, neta, planned_hours, bateria, prod_dt, rubro
		 FROM wells WHERE dataset_id = ?`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing wells: %w", err)
	}
	defer rows.Close()

	wells, err := scanWells(rows)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Well, len(wells))
	for _, w := range wells {
		m[w.Pozo] = w
	}
	return m, nil
}

func scanWells(rows *sql.Rows) ([]Well, error) {
	var wells []Well
	for rows.Next() {
		var w Well
		if err := rows.Scan(&w.Pozo, &w.Zona, &w.Lat, &w.Lon, &w.Neta, &w.PlannedHours, &w.Bateria, &w.ProdDate, &w.Rubro); err != nil {
			return nil, fmt.Errorf("scanning well: %w", err)
		}
		wells = append(wells, w)
	}
	return wells, rows.Err()
}
