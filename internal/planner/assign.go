// Package planner builds the pulling priority matrix: for each rig it ranks
// the nearest high-loss wells into N+1..N+3 moves and recommends whether to
// abandon the current well for the best candidate.
package planner

import (
	"fmt"
	"sort"

	"wellpull/internal/dataset"
	"wellpull/internal/geo"
)

const (
	recommendAbandon  = "Abandonar pozo actual y moverse al N+1"
	recommendContinue = "Continuar en pozo actual"

	// distanceWeight converts kilometres to equivalent hours in the
	// coefficient denominator: each km of move costs half an hour.
	distanceWeight = 0.5
)

// Coefficient scores a candidate well from a reference well: recovered
// production per hour spent, where moving costs distanceWeight hours per km.
// Returns the coefficient and the distance in km.
func Coefficient(ref, cand dataset.Well) (float64, float64) {
	dist := geo.DistanceKm(ref.Lat, ref.Lon, cand.Lat, cand.Lon)
	denom := cand.PlannedHours + distanceWeight*dist
	if denom == 0 {
		return 0, dist
	}
	return cand.Neta / denom, dist
}

// Assign distributes the available wells over the rigs in Levels rounds and
// builds the priority matrix. Wells and slot wells are looked up in the
// given well map; a slot whose current well is missing from the map scores
// zero and keeps empty candidates.
func Assign(slots []Slot, available []string, wells map[string]dataset.Well) *Plan {
	plan := &Plan{}

	ordered := make([]Slot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	assigned := make(map[int][]Candidate, len(ordered)) // slot number -> picks so far
	occupied := make(map[string]bool, len(available))

	for level := 1; level <= Levels; level++ {
		for _, slot := range ordered {
			ref, ok := referenceWell(slot, assigned[slot.Number], wells)
			if !ok {
				continue
			}

			best, found := bestCandidate(ref, available, occupied, wells)
			if !found {
				plan.Warnings = append(plan.Warnings,
					fmt.Sprintf("no quedan pozos disponibles para asignar como N+%d en Pulling %d", level, slot.Number))
				continue
			}

			assigned[slot.Number] = append(assigned[slot.Number], best)
			occupied[best.Pozo] = true
		}
	}

	for _, slot := range ordered {
		plan.Rows = append(plan.Rows, buildRow(slot, assigned[slot.Number], wells))
	}
	return plan
}

// referenceWell is the well distances are measured from: the rig's latest
// assignment, or its current well before any assignment.
func referenceWell(slot Slot, picks []Candidate, wells map[string]dataset.Well) (dataset.Well, bool) {
	name := slot.Pozo
	if len(picks) > 0 {
		name = picks[len(picks)-1].Pozo
	}
	w, ok := wells[name]
	return w, ok
}

// bestCandidate picks the unoccupied available well with the highest
// coefficient, breaking ties by shorter distance.
func bestCandidate(ref dataset.Well, available []string, occupied map[string]bool, wells map[string]dataset.Well) (Candidate, bool) {
	var best Candidate
	found := false
	for _, name := range available {
		if occupied[name] {
			continue
		}
		cand, ok := wells[name]
		if !ok {
			continue
		}
		coef, dist := Coefficient(ref, cand)
		if !found || coef > best.Coefficient || (coef == best.Coefficient && dist < best.DistanceKm) {
			best = Candidate{Pozo: name, Coefficient: coef, DistanceKm: dist}
			found = true
		}
	}
	return best, found
}

// buildRow assembles one matrix row, padding missing levels and computing
// the abandon/continue recommendation.
func buildRow(slot Slot, picks []Candidate, wells map[string]dataset.Well) Row {
	row := Row{
		Rig:            fmt.Sprintf("Pulling %d", slot.Number),
		CurrentPozo:    slot.Pozo,
		RemainingHours: slot.RemainingHours,
	}
	if w, ok := wells[slot.Pozo]; ok {
		row.CurrentNeta = w.Neta
	}

	for i := 0; i < Levels; i++ {
		if i < len(picks) {
			row.Next[i] = picks[i]
		} else {
			// Matches the legacy padding so downstream consumers always
			// see three levels.
			row.Next[i] = Candidate{Pozo: "N/A", Coefficient: 1, DistanceKm: 1}
		}
	}

	// Current coefficient: production still being recovered per remaining
	// hour. A rig with no remaining work scores zero and should move on.
	currentCoef := 0.0
	if slot.RemainingHours > 0 {
		currentCoef = row.CurrentNeta / slot.RemainingHours
	}

	// N+1 coefficient from the candidate's well data. A padded level has no
	// well; it scores as neta 1 over one planned hour, so a rig still
	// recovering more than 2/3 m3/d per remaining hour keeps working.
	n1 := row.Next[0]
	var n1Coef float64
	if w, ok := wells[n1.Pozo]; ok {
		n1Coef = w.Neta / (distanceWeight*n1.DistanceKm + w.PlannedHours)
	} else {
		n1Coef = 1 / (distanceWeight*n1.DistanceKm + 1)
	}

	if currentCoef < n1Coef {
		row.Abandon = true
		row.Recommendation = recommendAbandon
	} else {
		row.Recommendation = recommendContinue
	}
	return row
}
