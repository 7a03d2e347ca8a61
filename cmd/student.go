package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batchalloc/batchalloc/alloc"
)

var (
	studentKey   string // Unique student key (SAP id)
	studentName  string // Display name
	studentScore int    // Score in [0,100]
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Add, update, delete and inspect students in the roster",
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a student to the roster",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		s := mustOpenSession(cmd)
		if err := s.store.AddStudent(studentKey, studentName, studentScore); err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = fmt.Fprintf(out, "Student %s added.\n", studentKey)
		s.mustSave(out, "")
	},
}

var studentUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the name and/or score of a student",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		var name *string
		var score *int
		if cmd.Flags().Changed("name") {
			name = &studentName
		}
		if cmd.Flags().Changed("score") {
			score = &studentScore
		}
		if name == nil && score == nil {
			logrus.Fatalf("nothing to update: pass --name and/or --score")
		}

		s := mustOpenSession(cmd)
		if err := s.store.UpdateStudent(studentKey, name, score); err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = fmt.Fprintf(out, "Student %s updated.\n", studentKey)
		s.mustSave(out, "")
	},
}

var studentDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a student from the roster",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		s := mustOpenSession(cmd)
		if err := s.store.DeleteStudent(studentKey); err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = fmt.Fprintf(out, "Student %s deleted.\n", studentKey)
		s.mustSave(out, "")
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one student and the batch they are allocated to",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(cmd)
		if err := showStudent(cmd.OutOrStdout(), s.store, studentKey); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every student in the roster",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(cmd)
		alloc.PrintStudents(cmd.OutOrStdout(), s.store.Students())
	},
}

// showStudent prints a student's record and batch. A saved batch index with
// no matching batch in this session (no profile, or a shorter one) is shown
// as a bare index.
func showStudent(w io.Writer, store *alloc.Store, key string) error {
	st, batch, ok := store.Locate(key)
	if !ok {
		return &alloc.Error{Op: "Show", Key: key, Kind: alloc.ErrNotFound, Msg: "no student with this key"}
	}
	_, _ = fmt.Fprintf(w, "SAP   : %s\n", st.Key)
	_, _ = fmt.Fprintf(w, "Name  : %s\n", st.Name)
	_, _ = fmt.Fprintf(w, "Marks : %d\n", st.Score)
	switch {
	case batch != nil:
		_, _ = fmt.Fprintf(w, "Batch : %s (index %d)\n", batch.Name, batch.Index)
	case st.Assigned():
		_, _ = fmt.Fprintf(w, "Batch : index %d (not defined in this session)\n", st.Batch)
	default:
		_, _ = fmt.Fprintln(w, "Batch : not allocated")
	}
	return nil
}

func init() {
	studentAddCmd.Flags().StringVar(&studentKey, "key", "", "Unique student key")
	studentAddCmd.Flags().StringVar(&studentName, "name", "", "Student name")
	studentAddCmd.Flags().IntVar(&studentScore, "score", 0, "Score in [0,100]")
	_ = studentAddCmd.MarkFlagRequired("key")
	_ = studentAddCmd.MarkFlagRequired("name")
	_ = studentAddCmd.MarkFlagRequired("score")

	studentUpdateCmd.Flags().StringVar(&studentKey, "key", "", "Key of the student to update")
	studentUpdateCmd.Flags().StringVar(&studentName, "name", "", "New name")
	studentUpdateCmd.Flags().IntVar(&studentScore, "score", 0, "New score in [0,100]")
	_ = studentUpdateCmd.MarkFlagRequired("key")

	for _, c := range []*cobra.Command{studentDeleteCmd, studentShowCmd} {
		c.Flags().StringVar(&studentKey, "key", "", "Student key")
		_ = c.MarkFlagRequired("key")
	}

	studentCmd.AddCommand(studentAddCmd, studentUpdateCmd, studentDeleteCmd, studentShowCmd, studentListCmd)
	rootCmd.AddCommand(studentCmd)
}
