// Package roster reads and writes the comma-delimited roster file.
//
// Format: a fixed header line followed by one record per student:
//
//	sap,name,marks,allocated_batch
//	<key>,<name>,<score>,<batch-index-or--1>
//
// Names are sanitized, not quoted: commas and line breaks become spaces.
// Batch definitions are not persisted; the batch index is only meaningful
// against the batch list that existed when the file was saved.
package roster

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/batchalloc/batchalloc/alloc"
)

// Header is the first line of every roster file.
const Header = "sap,name,marks,allocated_batch"

// DefaultFile is loaded at startup when present in the working directory.
const DefaultFile = "students.csv"

// Codec saves and loads rosters through an afs storage service, so locations
// may be plain paths or any URL scheme afs resolves.
type Codec struct {
	fs afs.Service
}

// New creates a Codec over fs.
func New(fs afs.Service) *Codec {
	return &Codec{fs: fs}
}

// NewDefault creates a Codec over afs.New().
func NewDefault() *Codec {
	return New(afs.New())
}

// SanitizeName replaces field and record delimiters with spaces.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '\n', '\r':
			return ' '
		}
		return r
	}, name)
}

// Encode renders students in roster format.
func Encode(students []alloc.Student) []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')
	for _, st := range students {
		fmt.Fprintf(&buf, "%s,%s,%d,%d\n", st.Key, SanitizeName(st.Name), st.Score, st.Batch)
	}
	return buf.Bytes()
}

// Decode parses roster content. The first line is discarded without
// validation. Fields are split on commas with empty fields collapsed; blank
// lines are skipped. A missing or unparsable score reads as 0 and a missing
// or unparsable batch index reads as alloc.NoBatch.
func Decode(data []byte) []alloc.Student {
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var students []alloc.Student
	for _, line := range lines {
		fields := strings.FieldsFunc(strings.TrimRight(line, "\r"), func(r rune) bool { return r == ',' })
		if len(fields) == 0 {
			continue
		}
		st := alloc.Student{Key: fields[0], Batch: alloc.NoBatch}
		if len(fields) > 1 {
			st.Name = fields[1]
		}
		if len(fields) > 2 {
			st.Score = parseInt(fields[2], 0)
		}
		if len(fields) > 3 {
			st.Batch = parseInt(fields[3], alloc.NoBatch)
		}
		students = append(students, st)
	}
	return students
}

func parseInt(field string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return fallback
	}
	return v
}

// normalize turns relative and absolute paths into file:// URLs and leaves
// other URLs untouched.
func normalize(location string) string {
	return url.Normalize(location, file.Scheme)
}

// Save writes students to location, replacing any existing content.
func (c *Codec) Save(ctx context.Context, location string, students []alloc.Student) error {
	if err := c.fs.Upload(ctx, normalize(location), file.DefaultFileOsMode, bytes.NewReader(Encode(students))); err != nil {
		return alloc.WrapIO("Save", location, err)
	}
	logrus.Debugf("saved %d students to %s", len(students), location)
	return nil
}

// Load reads students from location.
func (c *Codec) Load(ctx context.Context, location string) ([]alloc.Student, error) {
	data, err := c.fs.DownloadWithURL(ctx, normalize(location))
	if err != nil {
		return nil, alloc.WrapIO("Load", location, err)
	}
	students := Decode(data)
	logrus.Debugf("loaded %d students from %s", len(students), location)
	return students, nil
}

// LoadInto reads students from location and restores them into store,
// replacing the roster and clearing every batch. Returns the record count.
func (c *Codec) LoadInto(ctx context.Context, location string, store *alloc.Store) (int, error) {
	students, err := c.Load(ctx, location)
	if err != nil {
		return 0, err
	}
	if err := store.Restore(students); err != nil {
		return 0, err
	}
	return len(students), nil
}

// SaveFrom writes the store's roster to location. Returns the record count.
func (c *Codec) SaveFrom(ctx context.Context, location string, store *alloc.Store) (int, error) {
	students := store.Students()
	if err := c.Save(ctx, location, students); err != nil {
		return 0, err
	}
	return len(students), nil
}

// Exists reports whether location can be found.
func (c *Codec) Exists(ctx context.Context, location string) bool {
	ok, err := c.fs.Exists(ctx, normalize(location))
	return err == nil && ok
}
