package alloc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with one batch per capacity, named B0, B1, ...
func newTestStore(t *testing.T, capacities ...int) *Store {
	t.Helper()
	s := NewStore(Limits{})
	for i, c := range capacities {
		_, err := s.AddBatch(fmt.Sprintf("B%d", i), c)
		require.NoError(t, err)
	}
	return s
}

// addStudents adds students s1..sN with scores 50.
func addStudents(t *testing.T, s *Store, n int) []string {
	t.Helper()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("s%02d", i+1)
		require.NoError(t, s.AddStudent(keys[i], "Student "+keys[i], 50))
	}
	return keys
}

func batchOf(t *testing.T, s *Store, key string) int {
	t.Helper()
	st, ok := s.LookupStudent(key)
	require.True(t, ok, "student %q not found", key)
	return st.Batch
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
