// Aggregates roster and batch statistics for the summary report.

package alloc

import (
	"fmt"
	"io"
)

// Summary holds the aggregate counts of a store.
type Summary struct {
	TotalStudents int
	TotalBatches  int
	Allocated     int // students holding a batch index, carried-over ones included
	Unallocated   int
	TotalCapacity int
}

// Summarize computes the summary in one pass over students and batches.
func Summarize(s *Store) Summary {
	sum := Summary{
		TotalStudents: len(s.students),
		TotalBatches:  len(s.batches),
	}
	for _, st := range s.students {
		if st.Assigned() {
			sum.Allocated++
		}
	}
	sum.Unallocated = sum.TotalStudents - sum.Allocated
	for _, b := range s.batches {
		sum.TotalCapacity += b.Capacity
	}
	return sum
}

// Print writes the summary report.
func (m Summary) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Summary Report ===")
	_, _ = fmt.Fprintf(w, "Total students       : %d\n", m.TotalStudents)
	_, _ = fmt.Fprintf(w, "Total batches        : %d\n", m.TotalBatches)
	_, _ = fmt.Fprintf(w, "Allocated students   : %d\n", m.Allocated)
	_, _ = fmt.Fprintf(w, "Unallocated students : %d\n", m.Unallocated)
	_, _ = fmt.Fprintf(w, "Total capacity       : %d\n", m.TotalCapacity)
}

// PrintBatches writes each batch with its fill and members.
// students resolves member keys to names and scores; missing keys are skipped.
func PrintBatches(w io.Writer, batches []BatchView, students []Student) {
	if len(batches) == 0 {
		_, _ = fmt.Fprintln(w, "No batches defined.")
		return
	}
	byKey := make(map[string]Student, len(students))
	for _, st := range students {
		byKey[st.Key] = st
	}
	for _, b := range batches {
		_, _ = fmt.Fprintf(w, "Batch %d: %s (%d/%d)\n", b.Index, b.Name, b.Filled(), b.Capacity)
		if b.Filled() == 0 {
			_, _ = fmt.Fprintln(w, "  (no members)")
			continue
		}
		for _, key := range b.MemberKeys {
			if st, ok := byKey[key]; ok {
				_, _ = fmt.Fprintf(w, "   %s - %s (%d)\n", st.Key, st.Name, st.Score)
			}
		}
	}
}

// PrintStudents writes the roster as a table.
func PrintStudents(w io.Writer, students []Student) {
	if len(students) == 0 {
		_, _ = fmt.Fprintln(w, "No students in the database.")
		return
	}
	sep := "-----------------------------------------------------------------"
	_, _ = fmt.Fprintln(w, sep)
	_, _ = fmt.Fprintf(w, "%-10s  %-30s  %-6s  %-6s\n", "SAP", "Name", "Marks", "Batch")
	_, _ = fmt.Fprintln(w, sep)
	for _, st := range students {
		_, _ = fmt.Fprintf(w, "%-10s  %-30s  %-6d  %-6d\n", st.Key, st.Name, st.Score, st.Batch)
	}
	_, _ = fmt.Fprintln(w, sep)
}
