package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Allocation profile (YAML)
	rosterPath string // Roster file; empty means roster.DefaultFile
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "batchalloc",
	Short: "Student roster and batch allocation tool",
	Long: "Maintain a student roster in a comma-delimited file and distribute the " +
		"students over capacity-limited batches declared in an allocation profile.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to allocation profile YAML (strategy, seed, limits, batches)")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "Roster file or URL (default students.csv)")
}
