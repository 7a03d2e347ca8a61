package alloc

import (
	"github.com/sirupsen/logrus"

	"github.com/batchalloc/batchalloc/alloc/trace"
)

// Placement is the outcome of one allocation run.
type Placement struct {
	Placed   int  // students assigned to a batch
	Unplaced int  // keys left unassigned because every batch was full
	Halted   bool // placement stopped before the end of the order
}

// resetAssignments clears every student's batch and empties every batch.
func (s *Store) resetAssignments() {
	for _, st := range s.students {
		st.Batch = NoBatch
		st.carried = false
	}
	for _, b := range s.batches {
		b.Members = b.Members[:0]
	}
}

// Allocate recomputes every assignment from scratch.
//
// All prior assignments are cleared first. Then each key in order is placed in
// the first batch with free capacity found by a circular scan starting at the
// cursor; the cursor then moves to the batch after the one just filled. When a
// full scan finds no free capacity, placement stops and the remaining keys
// stay unassigned. Keys not in the roster, and repeats of a placed key, are
// skipped.
//
// tr may be nil. Fails with ErrInvalidInput, without touching any assignment,
// when the store has no batches.
func (s *Store) Allocate(order []string, tr *trace.AllocationTrace) (Placement, error) {
	var result Placement
	n := len(s.batches)
	if n == 0 {
		return result, newError("Allocate", "", ErrInvalidInput, "no batches defined")
	}

	s.resetAssignments()
	if tr.Enabled() {
		tr.Reset()
	}

	cursor := 0
	for seq, key := range order {
		pos, ok := s.index[key]
		if !ok {
			logrus.Warnf("allocate: skipping unknown key %q at position %d", key, seq)
			continue
		}
		st := s.students[pos]
		if st.Batch != NoBatch {
			logrus.Warnf("allocate: key %q repeated at position %d, keeping first placement", key, seq)
			continue
		}

		chosen := -1
		probed := 0
		for d := 0; d < n; d++ {
			bi := (cursor + d) % n
			probed++
			if s.batches[bi].Free() > 0 {
				chosen = bi
				break
			}
		}
		if chosen < 0 {
			result.Halted = true
			result.Unplaced = len(order) - seq
			if tr.Enabled() {
				tr.RecordHalt(trace.HaltRecord{Seq: seq, Key: key, Remaining: result.Unplaced})
			}
			logrus.Debugf("allocate: all %d batches full at key %q, %d keys unplaced", n, key, result.Unplaced)
			break
		}

		b := s.batches[chosen]
		b.Members = append(b.Members, st)
		st.Batch = chosen
		if tr.Enabled() {
			tr.RecordPlacement(trace.PlacementRecord{
				Seq:        seq,
				Key:        key,
				Cursor:     cursor,
				BatchIndex: chosen,
				BatchID:    b.ID,
				BatchName:  b.Name,
				Probed:     probed,
				FillAfter:  b.Filled(),
			})
		}
		cursor = (chosen + 1) % n
		result.Placed++
	}

	logrus.Debugf("allocate: placed %d of %d keys across %d batches", result.Placed, len(order), n)
	return result, nil
}

// Run orders a snapshot of the roster with policy and allocates it.
func (s *Store) Run(policy OrderingPolicy, tr *trace.AllocationTrace) (Placement, error) {
	return s.Allocate(policy.Order(s.Students()), tr)
}
