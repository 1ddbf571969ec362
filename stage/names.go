package stage

// Canonical stage keys. These are the timestamp-map keys for a run; a
// complete run carries exactly one record per key.
const (
	NameA    = "A"
	NameB    = "B"
	NameC1   = "C1"
	NameC2   = "C2"
	NameC3   = "C3"
	NameC4   = "C4"
	NameCHub = "C-hub"
	NameD    = "D"
)

// Sequential returns the ordered stage keys ahead of the parallel batch.
func Sequential() []string {
	return []string{NameA, NameB}
}

// Parallel returns the stage keys dispatched under the parallel hub.
func Parallel() []string {
	return []string{NameC1, NameC2, NameC3, NameC4}
}

// All returns every stage key a complete run records, in execution order.
// NameCHub is the synthetic record for the parallel batch itself.
func All() []string {
	return []string{NameA, NameB, NameC1, NameC2, NameC3, NameC4, NameCHub, NameD}
}

// DisplayNames maps stage keys to human-readable names for timeline output.
var DisplayNames = map[string]string{
	NameA:    "Service A: Story Generator",
	NameB:    "Service B: Story Analyzer",
	NameC1:   "Service C1: Image Concept",
	NameC2:   "Service C2: Audio Script",
	NameC3:   "Service C3: Translation",
	NameC4:   "Service C4: Formatting",
	NameCHub: "Service C: Parallel Processing Hub",
	NameD:    "Service D: Final Aggregator",
}
