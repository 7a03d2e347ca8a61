// Package sheet moves rosters in and out of .xlsx workbooks.
//
// Import reads the first sheet of a workbook: a header row followed by rows of
// key, name and score in columns A to C. Export writes a two-sheet workbook
// describing the current allocation.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/xuri/excelize/v2"

	"github.com/batchalloc/batchalloc/alloc"
)

const (
	StudentsSheet = "Students"
	BatchesSheet  = "Batches"
)

// Row is one usable record from an imported sheet. Line is the 1-based
// spreadsheet row number.
type Row struct {
	Line  int
	Key   string
	Name  string
	Score int
}

// Result counts what an import did.
type Result struct {
	Imported int
	Skipped  int
}

// ReadRows parses the first sheet of the workbook in r. The header row is
// discarded. Rows with a missing key or name, or a score that is not an
// integer, are skipped and counted.
func ReadRows(r io.Reader) ([]Row, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("closing workbook: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("workbook contains no sheets")
	}
	cells, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}

	var rows []Row
	skipped := 0
	for i, cols := range cells {
		if i == 0 {
			continue
		}
		var key, name, score string
		if len(cols) > 0 {
			key = strings.TrimSpace(cols[0])
		}
		if len(cols) > 1 {
			name = strings.TrimSpace(cols[1])
		}
		if len(cols) > 2 {
			score = strings.TrimSpace(cols[2])
		}
		if key == "" && name == "" && score == "" {
			continue
		}
		if key == "" || name == "" {
			logrus.Warnf("row %d: missing key or name, skipped", i+1)
			skipped++
			continue
		}
		v, err := strconv.Atoi(score)
		if err != nil {
			logrus.Warnf("row %d (%s): score %q is not an integer, skipped", i+1, key, score)
			skipped++
			continue
		}
		rows = append(rows, Row{Line: i + 1, Key: key, Name: name, Score: v})
	}
	return rows, skipped, nil
}

// Import appends the rows of the workbook in r to store. Rows the store
// rejects (duplicate key, score out of range) are skipped with a warning.
// If the parsed rows cannot fit under the roster limit nothing is added and
// the error matches alloc.ErrResourceExhausted.
func Import(r io.Reader, store *alloc.Store) (Result, error) {
	rows, skipped, err := ReadRows(r)
	if err != nil {
		return Result{}, err
	}
	limit := store.Limits().MaxStudents
	if store.NumStudents()+len(rows) > limit {
		return Result{}, &alloc.Error{
			Op:   "Import",
			Kind: alloc.ErrResourceExhausted,
			Msg:  fmt.Sprintf("%d rows on top of %d students exceed the roster limit of %d", len(rows), store.NumStudents(), limit),
		}
	}

	res := Result{Skipped: skipped}
	for _, row := range rows {
		if err := store.AddStudent(row.Key, row.Name, row.Score); err != nil {
			logrus.Warnf("row %d: %v", row.Line, err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	logrus.Debugf("imported %d rows, skipped %d", res.Imported, res.Skipped)
	return res, nil
}

// ImportFile downloads the workbook at location through fs and imports it.
func ImportFile(ctx context.Context, fs afs.Service, location string, store *alloc.Store) (Result, error) {
	data, err := fs.DownloadWithURL(ctx, url.Normalize(location, file.Scheme))
	if err != nil {
		return Result{}, alloc.WrapIO("ImportFile", location, err)
	}
	return Import(bytes.NewReader(data), store)
}

// Export writes a workbook with a Students sheet (one row per student) and a
// Batches sheet (one row per batch member; an empty batch gets a single row
// with no member).
func Export(w io.Writer, students []alloc.Student, batches []alloc.BatchView) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("closing workbook: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), StudentsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(BatchesSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	names := make(map[int]string, len(batches))
	for _, b := range batches {
		names[b.Index] = b.Name
	}

	if err := setRow(f, StudentsSheet, 1, "Key", "Name", "Score", "Batch", "Batch name"); err != nil {
		return err
	}
	for i, st := range students {
		if err := setRow(f, StudentsSheet, i+2, st.Key, st.Name, st.Score, st.Batch, names[st.Batch]); err != nil {
			return err
		}
	}

	if err := setRow(f, BatchesSheet, 1, "Index", "ID", "Name", "Capacity", "Filled", "Member"); err != nil {
		return err
	}
	line := 2
	for _, b := range batches {
		members := b.MemberKeys
		if len(members) == 0 {
			members = []string{""}
		}
		for _, key := range members {
			if err := setRow(f, BatchesSheet, line, b.Index, b.ID, b.Name, b.Capacity, b.Filled(), key); err != nil {
				return err
			}
			line++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ExportFile renders the workbook and uploads it to location through fs.
func ExportFile(ctx context.Context, fs afs.Service, location string, students []alloc.Student, batches []alloc.BatchView) error {
	var buf bytes.Buffer
	if err := Export(&buf, students, batches); err != nil {
		return err
	}
	if err := fs.Upload(ctx, url.Normalize(location, file.Scheme), file.DefaultFileOsMode, &buf); err != nil {
		return alloc.WrapIO("ExportFile", location, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}
