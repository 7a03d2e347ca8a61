package trace

// TraceSummary aggregates statistics from an AllocationTrace.
type TraceSummary struct {
	Placements   int
	Halted       bool
	Unplaced     int
	Skips        int         // full batches passed over across all scans
	Distribution map[int]int // batch index → students placed
	UsedBatches  int
}

// Summarize computes aggregate statistics from an AllocationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *AllocationTrace) *TraceSummary {
	summary := &TraceSummary{
		Distribution: make(map[int]int),
	}
	if t == nil {
		return summary
	}

	summary.Placements = len(t.Placements)
	for _, p := range t.Placements {
		summary.Distribution[p.BatchIndex]++
		summary.Skips += p.Skipped()
	}
	if t.Halt != nil {
		summary.Halted = true
		summary.Unplaced = t.Halt.Remaining
	}
	summary.UsedBatches = len(summary.Distribution)

	return summary
}
