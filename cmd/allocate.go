package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batchalloc/batchalloc/alloc"
)

var (
	strategy  string // Ordering strategy
	seed      int64  // Seed for the random strategy
	outPath   string // Where to save the allocated roster; empty means --roster
	showTrace bool   // Print every placement decision
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate every student to the profile's batches and save the result",
	Long: "Clear all assignments, order the roster with the chosen strategy and deal students " +
		"out round-robin over the batches of --config, skipping full batches. Placement stops " +
		"at the first student no batch can take.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !alloc.IsValidStrategy(strategy) {
			logrus.Fatalf("Unknown strategy %q. Valid: %v", strategy, alloc.StrategyNames())
		}
		s := mustOpenSession(cmd)
		if s.store.NumBatches() == 0 {
			logrus.Fatalf("No batches defined. Declare batches in the profile passed with --config.")
		}

		if _, err := s.allocate(out, allocFlags(cmd)); err != nil {
			logrus.Fatalf("%v", err)
		}
		alloc.PrintBatches(out, s.store.Batches(), s.store.Students())
		alloc.Summarize(s.store).Print(out)
		s.mustSave(out, outPath)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print roster and batch totals",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(cmd)
		alloc.Summarize(s.store).Print(cmd.OutOrStdout())
	},
}

// allocFlags collects the allocation flags of cmd. Only flags the user set
// override the profile.
func allocFlags(cmd *cobra.Command) allocOptions {
	return allocOptions{
		Strategy:    strategy,
		StrategySet: cmd.Flags().Changed("strategy"),
		Seed:        seed,
		SeedSet:     cmd.Flags().Changed("seed"),
		Trace:       showTrace,
	}
}

func registerAllocFlags(c *cobra.Command) {
	c.Flags().StringVar(&strategy, "strategy", alloc.StrategyScoreDesc, "Ordering strategy (score-desc, name-asc, name-desc, key-asc, random)")
	c.Flags().Int64Var(&seed, "seed", 0, "Seed for the random strategy; overrides the profile seed")
}

func init() {
	registerAllocFlags(allocateCmd)
	allocateCmd.Flags().StringVar(&outPath, "out", "", "Save the allocated roster here instead of --roster")
	allocateCmd.Flags().BoolVar(&showTrace, "trace", false, "Print each placement decision")

	rootCmd.AddCommand(allocateCmd, summaryCmd)
}
