// Package trace records allocator placement decisions for later analysis.
// It has no dependencies on alloc/ and stores pure data types.
package trace

// PlacementRecord captures one student placed by the allocator.
type PlacementRecord struct {
	Seq        int    // position of the key in the ordering
	Key        string // student key
	Cursor     int    // batch index the circular scan started from
	BatchIndex int    // batch the student was placed in
	BatchID    string
	BatchName  string
	Probed     int // batches examined, including the chosen one
	FillAfter  int // batch fill count after the placement
}

// Skipped returns how many full batches the scan passed over.
func (r PlacementRecord) Skipped() int {
	return r.Probed - 1
}

// HaltRecord captures the fail-stop point: the first key for which no batch
// had free capacity.
type HaltRecord struct {
	Seq       int
	Key       string
	Remaining int // keys left unplaced, including Key
}
