package dataset

import "time"

// RubroEsperaTractor is stamped on every imported well; downstream reporting
// groups interventions under this heading.
const RubroEsperaTractor = "ESPERA DE TRACTOR"

// Well is one cleaned row of the weekly intervention workbook.
type Well struct {
	Pozo         string  `json:"pozo"`
	Zona         string  `json:"zona"`
	Lat          float64 `json:"geo_latitude"`
	Lon          float64 `json:"geo_longitude"`
	Neta         float64 `json:"neta"`          // production loss, m3/d
	PlannedHours float64 `json:"planned_hours"` // Plan [Hs/INT]
	Bateria      string  `json:"bateria"`
	ProdDate     string  `json:"prod_dt"` // YYYY-MM-DD
	Rubro        string  `json:"rubro"`
}

// PreviewRow is one row of the top-loss preview shown after import.
// The preview is captured before the plan filter, so it includes wells
// that are not scheduled for intervention.
type PreviewRow struct {
	Pozo    string  `json:"pozo"`
	Zona    string  `json:"zona"`
	Neta    float64 `json:"neta"`
	Plan    string  `json:"plan"`
	Equipo  string  `json:"equipo"`
	Bateria string  `json:"bateria"`
}

// Dataset is an imported workbook.
type Dataset struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	SourceFile string       `json:"source_file"`
	WellCount  int          `json:"well_count"`
	Preview    []PreviewRow `json:"preview"`
	ImportedAt time.Time    `json:"imported_at"`
}

// ImportResult is the outcome of processing one workbook.
type ImportResult struct {
	Wells       []Well
	Preview     []PreviewRow
	RowsRead    int
	RowsDropped int
}

// ProgressFunc receives row-level progress during an import.
type ProgressFunc func(processed, total int)
