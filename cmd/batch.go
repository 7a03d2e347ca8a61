package cmd

import (
	"github.com/spf13/cobra"

	"github.com/batchalloc/batchalloc/alloc"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Inspect the batches declared in the allocation profile",
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches with the students whose saved assignment points at them",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(cmd)
		students := s.store.Students()
		alloc.PrintBatches(cmd.OutOrStdout(), savedMembership(s.store.Batches(), students), students)
	},
}

// savedMembership fills each batch view with the students whose persisted
// batch index equals the batch index. Batches are not persisted, so after a
// load this is the only membership there is.
func savedMembership(batches []alloc.BatchView, students []alloc.Student) []alloc.BatchView {
	out := make([]alloc.BatchView, len(batches))
	for i, b := range batches {
		b.MemberKeys = nil
		for _, st := range students {
			if st.Batch == b.Index {
				b.MemberKeys = append(b.MemberKeys, st.Key)
			}
		}
		out[i] = b
	}
	return out
}

func init() {
	batchCmd.AddCommand(batchListCmd)
	rootCmd.AddCommand(batchCmd)
}
