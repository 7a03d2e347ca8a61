package alloc

// NoBatch marks a student that is not assigned to any batch.
const NoBatch = -1

const (
	MinScore = 0
	MaxScore = 100
)

// Student is one roster entry. Key is immutable once created.
type Student struct {
	Key   string
	Name  string
	Score int
	Batch int // index into the store's batches, NoBatch if unassigned

	// carried is set for students restored from a roster file whose batch
	// index was persisted but whose batch membership was not.
	carried bool
}

// Assigned reports whether the student holds a batch index.
func (s Student) Assigned() bool {
	return s.Batch >= 0
}

// Carried reports whether Batch was restored from a roster file rather than
// produced by an allocation run in this session.
func (s Student) Carried() bool {
	return s.carried
}

// Batch is a capacity-bounded group. Members are owned by the allocator and
// rewritten in full on every run.
type Batch struct {
	ID       string
	Name     string
	Capacity int
	Members  []*Student
}

// Filled returns the number of students currently placed in the batch.
func (b *Batch) Filled() int {
	return len(b.Members)
}

// Free returns the remaining capacity.
func (b *Batch) Free() int {
	return b.Capacity - len(b.Members)
}

// BatchView is a read-only copy of a batch for display and export.
type BatchView struct {
	Index      int
	ID         string
	Name       string
	Capacity   int
	MemberKeys []string
}

// Filled returns the number of members in the view.
func (v BatchView) Filled() int {
	return len(v.MemberKeys)
}

func (b *Batch) view(index int) BatchView {
	keys := make([]string, len(b.Members))
	for i, m := range b.Members {
		keys[i] = m.Key
	}
	return BatchView{Index: index, ID: b.ID, Name: b.Name, Capacity: b.Capacity, MemberKeys: keys}
}
