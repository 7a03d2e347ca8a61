package alloc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/batchalloc/batchalloc/internal/idgen"
)

// Default limits on roster and batch list size.
const (
	DefaultMaxStudents = 1000
	DefaultMaxBatches  = 100
)

// Limits bounds the size of a Store. Zero fields take the defaults.
type Limits struct {
	MaxStudents int `yaml:"max_students"`
	MaxBatches  int `yaml:"max_batches"`
}

// DefaultLimits returns the default store limits.
func DefaultLimits() Limits {
	return Limits{MaxStudents: DefaultMaxStudents, MaxBatches: DefaultMaxBatches}
}

func (l Limits) withDefaults() Limits {
	if l.MaxStudents <= 0 {
		l.MaxStudents = DefaultMaxStudents
	}
	if l.MaxBatches <= 0 {
		l.MaxBatches = DefaultMaxBatches
	}
	return l
}

// Store owns the student roster and the batch list.
//
// Students are kept in insertion order and addressed by key through index.
// Batch members point at students directly, so deleting a student only has to
// re-derive the key index; batch positions never shift because batches are
// append-only.
//
// Thread-safety: NOT thread-safe. Must be used from a single goroutine.
type Store struct {
	limits   Limits
	students []*Student
	index    map[string]int // key -> position in students
	batches  []*Batch
}

// NewStore creates an empty Store.
func NewStore(limits Limits) *Store {
	return &Store{
		limits: limits.withDefaults(),
		index:  make(map[string]int),
	}
}

// Limits returns the effective limits of the store.
func (s *Store) Limits() Limits {
	return s.limits
}

func validateName(op, key, name string) error {
	if name == "" {
		return newError(op, key, ErrInvalidInput, "name must not be empty")
	}
	return nil
}

func validateScore(op, key string, score int) error {
	if score < MinScore || score > MaxScore {
		return newError(op, key, ErrInvalidInput, "score %d outside [%d,%d]", score, MinScore, MaxScore)
	}
	return nil
}

// AddStudent appends a new unassigned student.
func (s *Store) AddStudent(key, name string, score int) error {
	const op = "AddStudent"
	if key == "" {
		return newError(op, "", ErrInvalidInput, "key must not be empty")
	}
	if _, exists := s.index[key]; exists {
		return newError(op, key, ErrDuplicateKey, "a student with this key already exists")
	}
	if err := validateName(op, key, name); err != nil {
		return err
	}
	if err := validateScore(op, key, score); err != nil {
		return err
	}
	if len(s.students) >= s.limits.MaxStudents {
		return newError(op, key, ErrInvalidInput, "roster is full (max %d students)", s.limits.MaxStudents)
	}

	s.index[key] = len(s.students)
	s.students = append(s.students, &Student{Key: key, Name: name, Score: score, Batch: NoBatch})
	logrus.Debugf("added student %q (score=%d)", key, score)
	return nil
}

// UpdateStudent replaces the name and/or score of a student. Nil arguments
// leave the attribute unchanged. The batch assignment is never touched.
func (s *Store) UpdateStudent(key string, name *string, score *int) error {
	const op = "UpdateStudent"
	pos, ok := s.index[key]
	if !ok {
		return newError(op, key, ErrNotFound, "student not found")
	}
	if name != nil {
		if err := validateName(op, key, *name); err != nil {
			return err
		}
	}
	if score != nil {
		if err := validateScore(op, key, *score); err != nil {
			return err
		}
	}

	st := s.students[pos]
	if name != nil {
		st.Name = *name
	}
	if score != nil {
		st.Score = *score
	}
	logrus.Debugf("updated student %q", key)
	return nil
}

// DeleteStudent removes a student from the roster and from whichever batch
// holds it. Batch members keep their relative order and every student after
// the removed position moves down by one in the key index.
func (s *Store) DeleteStudent(key string) error {
	pos, ok := s.index[key]
	if !ok {
		return newError("DeleteStudent", key, ErrNotFound, "student not found")
	}
	victim := s.students[pos]

	for _, b := range s.batches {
		for j, m := range b.Members {
			if m == victim {
				b.Members = append(b.Members[:j], b.Members[j+1:]...)
				break
			}
		}
	}

	copy(s.students[pos:], s.students[pos+1:])
	s.students[len(s.students)-1] = nil
	s.students = s.students[:len(s.students)-1]
	delete(s.index, key)
	for i := pos; i < len(s.students); i++ {
		s.index[s.students[i].Key] = i
	}
	logrus.Debugf("deleted student %q at position %d", key, pos)
	return nil
}

// AddBatch appends an empty batch and returns it.
func (s *Store) AddBatch(name string, capacity int) (*Batch, error) {
	const op = "AddBatch"
	if name == "" {
		return nil, newError(op, "", ErrInvalidInput, "batch name must not be empty")
	}
	if capacity <= 0 {
		return nil, newError(op, name, ErrInvalidInput, "capacity must be > 0, got %d", capacity)
	}
	if len(s.batches) >= s.limits.MaxBatches {
		return nil, newError(op, name, ErrInvalidInput, "cannot add more batches (max %d)", s.limits.MaxBatches)
	}
	b := &Batch{ID: idgen.New(), Name: name, Capacity: capacity}
	s.batches = append(s.batches, b)
	logrus.Debugf("added batch %d %q (capacity=%d)", len(s.batches)-1, name, capacity)
	return b, nil
}

// LookupStudent returns a copy of the student with the given key.
func (s *Store) LookupStudent(key string) (Student, bool) {
	pos, ok := s.index[key]
	if !ok {
		return Student{}, false
	}
	return *s.students[pos], true
}

// Locate returns the student and, when its batch index refers to an existing
// batch, a view of that batch.
func (s *Store) Locate(key string) (Student, *BatchView, bool) {
	st, ok := s.LookupStudent(key)
	if !ok {
		return Student{}, nil, false
	}
	if st.Batch < 0 || st.Batch >= len(s.batches) {
		return st, nil, true
	}
	v := s.batches[st.Batch].view(st.Batch)
	return st, &v, true
}

// Students returns copies of all students in insertion order.
func (s *Store) Students() []Student {
	out := make([]Student, len(s.students))
	for i, st := range s.students {
		out[i] = *st
	}
	return out
}

// Batches returns views of all batches in insertion order.
func (s *Store) Batches() []BatchView {
	out := make([]BatchView, len(s.batches))
	for i, b := range s.batches {
		out[i] = b.view(i)
	}
	return out
}

// NumStudents returns the roster size.
func (s *Store) NumStudents() int {
	return len(s.students)
}

// NumBatches returns the number of batches.
func (s *Store) NumBatches() int {
	return len(s.batches)
}

// Restore replaces the whole roster with the given students and drops every
// batch. Persisted batch indices are kept as carried-over assignments: they
// may point at batches that no longer exist until batches are re-added and a
// fresh allocation runs. On error the store is left unchanged.
func (s *Store) Restore(students []Student) error {
	const op = "Restore"
	if len(students) > s.limits.MaxStudents {
		return newError(op, "", ErrResourceExhausted, "%d records exceed the roster limit of %d", len(students), s.limits.MaxStudents)
	}
	index := make(map[string]int, len(students))
	restored := make([]*Student, len(students))
	for i, st := range students {
		if _, dup := index[st.Key]; dup {
			return newError(op, st.Key, ErrDuplicateKey, "key appears more than once")
		}
		index[st.Key] = i
		restored[i] = &Student{Key: st.Key, Name: st.Name, Score: st.Score, Batch: st.Batch, carried: st.Batch >= 0}
		if st.Batch < 0 {
			restored[i].Batch = NoBatch
		}
	}

	s.students = restored
	s.index = index
	s.batches = nil
	logrus.Debugf("restored %d students, batches cleared", len(restored))
	return nil
}

// Verify checks the store invariants: unique keys consistent with the index,
// members referring back to their batch, fill within capacity, and every
// non-carried assignment listed in its batch.
func (s *Store) Verify() error {
	if len(s.index) != len(s.students) {
		return fmt.Errorf("index holds %d keys for %d students", len(s.index), len(s.students))
	}
	for i, st := range s.students {
		if pos, ok := s.index[st.Key]; !ok || pos != i {
			return fmt.Errorf("student %q at position %d indexed at %d", st.Key, i, pos)
		}
	}

	member := make(map[*Student]int)
	for bi, b := range s.batches {
		if b.Filled() > b.Capacity {
			return fmt.Errorf("batch %d %q holds %d members over capacity %d", bi, b.Name, b.Filled(), b.Capacity)
		}
		for _, m := range b.Members {
			if pos, ok := s.index[m.Key]; !ok || s.students[pos] != m {
				return fmt.Errorf("batch %d %q lists unknown student %q", bi, b.Name, m.Key)
			}
			if prev, seen := member[m]; seen {
				return fmt.Errorf("student %q listed in batches %d and %d", m.Key, prev, bi)
			}
			member[m] = bi
			if m.Batch != bi {
				return fmt.Errorf("student %q listed in batch %d but assigned to %d", m.Key, bi, m.Batch)
			}
		}
	}

	for _, st := range s.students {
		if st.Batch < 0 || st.carried {
			continue
		}
		if bi, ok := member[st]; !ok || bi != st.Batch {
			return fmt.Errorf("student %q assigned to batch %d but not listed there", st.Key, st.Batch)
		}
	}
	return nil
}
