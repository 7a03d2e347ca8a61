package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batchalloc/batchalloc/alloc/sheet"
)

var xlsxPath string // Workbook to import from or export to

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Append students from an .xlsx workbook to the roster",
	Long:  "Read key, name and score from columns A-C of the first sheet (row 1 is a header). Bad rows are skipped.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		s := mustOpenSession(cmd)
		res, err := sheet.ImportFile(s.ctx, s.fs, xlsxPath, s.store)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = fmt.Fprintf(out, "Imported %d students from %s (%d rows skipped)\n", res.Imported, xlsxPath, res.Skipped)
		s.mustSave(out, "")
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the roster and allocation to an .xlsx workbook",
	Long: "With batches in --config the roster is allocated first (same rules as allocate) and " +
		"the workbook lists batch members; the roster file itself is not modified.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		s := mustOpenSession(cmd)
		if s.store.NumBatches() > 0 {
			if _, err := s.allocate(out, allocFlags(cmd)); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if err := sheet.ExportFile(s.ctx, s.fs, xlsxPath, s.store.Students(), s.store.Batches()); err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = fmt.Fprintf(out, "Exported %d students to %s\n", s.store.NumStudents(), xlsxPath)
	},
}

func init() {
	importCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Workbook to import")
	_ = importCmd.MarkFlagRequired("xlsx")

	exportCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Workbook to write")
	_ = exportCmd.MarkFlagRequired("xlsx")
	registerAllocFlags(exportCmd)

	rootCmd.AddCommand(importCmd, exportCmd)
}
