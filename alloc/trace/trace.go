package trace

// TraceLevel controls the verbosity of placement tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPlacements captures every placement and the halt point.
	TraceLevelPlacements TraceLevel = "placements"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelPlacements: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// AllocationTrace collects placement records during one allocation run.
type AllocationTrace struct {
	Level      TraceLevel
	Strategy   string
	Placements []PlacementRecord
	Halt       *HaltRecord // nil unless the run stopped early
}

// NewAllocationTrace creates an AllocationTrace ready for recording.
func NewAllocationTrace(level TraceLevel, strategy string) *AllocationTrace {
	return &AllocationTrace{
		Level:      level,
		Strategy:   strategy,
		Placements: make([]PlacementRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (t *AllocationTrace) Enabled() bool {
	return t != nil && t.Level == TraceLevelPlacements
}

// Reset drops previously recorded decisions, keeping level and strategy.
func (t *AllocationTrace) Reset() {
	t.Placements = t.Placements[:0]
	t.Halt = nil
}

// RecordPlacement appends a placement record.
func (t *AllocationTrace) RecordPlacement(record PlacementRecord) {
	t.Placements = append(t.Placements, record)
}

// RecordHalt marks the fail-stop point.
func (t *AllocationTrace) RecordHalt(record HaltRecord) {
	t.Halt = &record
}
