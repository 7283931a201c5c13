package planner

// Levels is how many next-candidate levels (N+1, N+2, N+3) each rig gets.
const Levels = 3

// Slot is a pulling rig with its current well.
type Slot struct {
	Number         int     // 1-based slot number
	Pozo           string  // well the rig is currently on
	RemainingHours float64 // hours left on the current intervention
}

// Candidate is one ranked next-well option for a rig.
type Candidate struct {
	Pozo        string
	Coefficient float64
	DistanceKm  float64
}

// Row is one rig's line in the priority matrix.
type Row struct {
	Rig            string // "Pulling 1", "Pulling 2", ...
	CurrentPozo    string
	CurrentNeta    float64
	RemainingHours float64
	Next           [Levels]Candidate
	Abandon        bool
	Recommendation string
}

// Plan is the full assignment outcome.
type Plan struct {
	Rows     []Row
	Warnings []string
}
