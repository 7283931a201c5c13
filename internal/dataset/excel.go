package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetMissing is returned when the configured sheet is not in the workbook.
var ErrSheetMissing = errors.New("sheet not found in workbook")

// previewSize is how many top-loss rows the import preview keeps.
const previewSize = 20

// equipoStopWords excludes rigs that cannot take pulling work. Matched as
// normalised substrings of the EQUIPO column.
var equipoStopWords = []string{"fb", "pesado", "z inyector", "z recupero"}

// canonical column keys, as produced by Normalize on the header row.
const (
	colActivo  = "activo"
	colPozo    = "pozo"
	colX       = "x"
	colY       = "y"
	colPerdida = "perdida [m3/d]"
	colPlan    = "plan [si/no]"
	colHoras   = "plan [hs/int]"
	colEquipo  = "equipo"
	colBateria = "bateria"
)

// rawRow is one workbook row before filtering.
type rawRow struct {
	activo  string
	pozo    string
	x       string
	y       string
	perdida string
	plan    string
	horas   string
	equipo  string
	bateria string
}

// ImportFile reads and cleans the given workbook sheet into well records.
//
// The cleanup mirrors the weekly planning workflow: rows flagged in red in
// OBSERVACIONES are discarded, only rows with Plan [Si/No] == 1 survive,
// rows with missing or zero critical values are dropped, and rigs matching
// the EQUIPO stop words are excluded. The preview captures the 20 highest
// losses before the plan filter.
func ImportFile(path, sheet string, progress ProgressFunc) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetMissing, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return &ImportResult{}, nil
	}

	cols := mapHeader(rows[0])
	obsIdx, hasObs := findObservaciones(rows[0])

	total := len(rows) - 1
	result := &ImportResult{RowsRead: total}

	var raws []rawRow
	for i, row := range rows[1:] {
		if progress != nil {
			progress(i+1, total)
		}

		// Rows whose OBSERVACIONES cell is written in red are operator
		// vetoes; skip them entirely.
		if hasObs {
			cell, err := excelize.CoordinatesToCellName(obsIdx+1, i+2)
			if err == nil && isRedFont(f, sheet, cell) {
				result.RowsDropped++
				continue
			}
		}

		raws = append(raws, rawRow{
			activo:  cellAt(row, cols[colActivo]),
			pozo:    cellAt(row, cols[colPozo]),
			x:       cellAt(row, cols[colX]),
			y:       cellAt(row, cols[colY]),
			perdida: cellAt(row, cols[colPerdida]),
			plan:    cellAt(row, cols[colPlan]),
			horas:   cellAt(row, cols[colHoras]),
			equipo:  cellAt(row, cols[colEquipo]),
			bateria: cellAt(row, cols[colBateria]),
		})
	}

	// Highest losses first. Unparseable losses sink to the bottom.
	sort.SliceStable(raws, func(i, j int) bool {
		return lossOf(raws[i]) > lossOf(raws[j])
	})

	for _, r := range raws {
		if len(result.Preview) >= previewSize {
			break
		}
		result.Preview = append(result.Preview, PreviewRow{
			Pozo:    r.pozo,
			Zona:    r.activo,
			Neta:    nanToZero(lossOf(r)),
			Plan:    r.plan,
			Equipo:  r.equipo,
			Bateria: r.bateria,
		})
	}

	today := time.Now().Format("2006-01-02")
	seen := make(map[string]int) // pozo -> index in result.Wells; last row wins
	for _, r := range raws {
		w, ok := cleanRow(r, today)
		if !ok {
			result.RowsDropped++
			continue
		}
		if i, dup := seen[w.Pozo]; dup {
			result.Wells[i] = w
			continue
		}
		seen[w.Pozo] = len(result.Wells)
		result.Wells = append(result.Wells, w)
	}

	return result, nil
}

// cleanRow applies the plan, critical-column, stop-word, and coordinate
// rules to a single row.
func cleanRow(r rawRow, today string) (Well, bool) {
	if v, err := parseNumber(r.plan); err != nil || v != 1 {
		return Well{}, false
	}

	// Critical columns must be present and non-zero.
	for _, v := range []string{r.activo, r.pozo, r.x, r.y, r.perdida, r.plan, r.horas, r.equipo} {
		if v == "" || isZero(v) {
			return Well{}, false
		}
	}

	equipo := Normalize(r.equipo)
	for _, stop := range equipoStopWords {
		if strings.Contains(equipo, stop) {
			return Well{}, false
		}
	}

	lat, err := parseNumber(r.x)
	if err != nil {
		return Well{}, false
	}
	lon, err := parseNumber(r.y)
	if err != nil {
		return Well{}, false
	}
	neta, err := parseNumber(r.perdida)
	if err != nil {
		return Well{}, false
	}
	horas, err := parseNumber(r.horas)
	if err != nil {
		return Well{}, false
	}

	return Well{
		Pozo:         strings.TrimSpace(r.pozo),
		Zona:         strings.TrimSpace(r.activo),
		Lat:          lat,
		Lon:          lon,
		Neta:         neta,
		PlannedHours: horas,
		Bateria:      strings.TrimSpace(r.bateria),
		ProdDate:     today,
		Rubro:        RubroEsperaTractor,
	}, true
}

// mapHeader maps canonical column keys to their index in the header row.
func mapHeader(header []string) map[string]int {
	cols := map[string]int{
		colActivo:  -1,
		colPozo:    -1,
		colX:       -1,
		colY:       -1,
		colPerdida: -1,
		colPlan:    -1,
		colHoras:   -1,
		colEquipo:  -1,
		colBateria: -1,
	}
	for i, h := range header {
		key := Normalize(h)
		if _, want := cols[key]; want && cols[key] == -1 {
			cols[key] = i
		}
	}
	return cols
}

// findObservaciones locates the OBSERVACIONES column, tolerating spelling
// variants by substring match.
func findObservaciones(header []string) (int, bool) {
	for i, h := range header {
		if strings.Contains(Normalize(h), "observac") {
			return i, true
		}
	}
	return 0, false
}

// isRedFont reports whether the cell's font colour is the red veto marker.
// openpyxl reports the colour as ARGB (FFFF0000); excelize styles may carry
// either ARGB or RGB, so match on the RGB suffix.
func isRedFont(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return false
	}
	return strings.HasSuffix(strings.ToUpper(style.Font.Color), "FF0000")
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func lossOf(r rawRow) float64 {
	v, err := parseNumber(r.perdida)
	if err != nil {
		return math.Inf(-1)
	}
	return v
}

func nanToZero(v float64) float64 {
	if math.IsInf(v, -1) || math.IsNaN(v) {
		return 0
	}
	return v
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func isZero(s string) bool {
	v, err := parseNumber(s)
	return err == nil && v == 0
}
