package alloc

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Strategy names accepted by NewOrderingPolicy.
const (
	StrategyScoreDesc = "score-desc"
	StrategyNameAsc   = "name-asc"
	StrategyNameDesc  = "name-desc"
	StrategyKeyAsc    = "key-asc"
	StrategyRandom    = "random"
)

// ValidStrategies is the set of recognized strategy names.
// An empty string selects the default (score-desc).
var ValidStrategies = map[string]bool{
	"":                true,
	StrategyScoreDesc: true,
	StrategyNameAsc:   true,
	StrategyNameDesc:  true,
	StrategyKeyAsc:    true,
	StrategyRandom:    true,
}

// IsValidStrategy returns true if name is a recognized strategy.
func IsValidStrategy(name string) bool {
	return ValidStrategies[name]
}

// StrategyNames returns the recognized strategy names in menu order.
func StrategyNames() []string {
	return []string{StrategyScoreDesc, StrategyNameAsc, StrategyNameDesc, StrategyKeyAsc, StrategyRandom}
}

// OrderingPolicy turns a roster snapshot into the sequence of keys the
// allocator places. Implementations MUST NOT modify the snapshot.
type OrderingPolicy interface {
	Order(students []Student) []string
}

// ScoreDescending orders by score, highest first. Ties keep insertion order.
type ScoreDescending struct{}

func (ScoreDescending) Order(students []Student) []string {
	return stableOrder(students, func(a, b Student) bool {
		return a.Score > b.Score
	})
}

// NameOrder orders by name, case-insensitively. Ties keep insertion order.
type NameOrder struct {
	Descending bool
}

func (n NameOrder) Order(students []Student) []string {
	return stableOrder(students, func(a, b Student) bool {
		c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		if n.Descending {
			return c > 0
		}
		return c < 0
	})
}

// KeyAscending orders by key, case-insensitively. Ties keep insertion order.
type KeyAscending struct{}

func (KeyAscending) Order(students []Student) []string {
	return stableOrder(students, func(a, b Student) bool {
		return strings.ToLower(a.Key) < strings.ToLower(b.Key)
	})
}

// RandomOrder is an unbiased Fisher-Yates shuffle of the insertion order.
type RandomOrder struct {
	rng *rand.Rand
}

// NewRandomOrder creates a RandomOrder drawing from rng.
func NewRandomOrder(rng *rand.Rand) *RandomOrder {
	return &RandomOrder{rng: rng}
}

func (r *RandomOrder) Order(students []Student) []string {
	keys := keysOf(students)
	for i := len(keys) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

func keysOf(students []Student) []string {
	keys := make([]string, len(students))
	for i, st := range students {
		keys[i] = st.Key
	}
	return keys
}

// stableOrder sorts a copy of the snapshot with sort.SliceStable so equal
// elements keep their insertion order.
func stableOrder(students []Student, less func(a, b Student) bool) []string {
	sorted := make([]Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return keysOf(sorted)
}

// NewOrderingPolicy creates an OrderingPolicy by name.
// Empty string defaults to score-desc. rng is used only by "random"; when nil
// it is seeded from EntropySeed.
// Panics on unrecognized names.
func NewOrderingPolicy(name string, rng *rand.Rand) OrderingPolicy {
	if !IsValidStrategy(name) {
		panic(fmt.Sprintf("unknown ordering strategy %q", name))
	}
	switch name {
	case "", StrategyScoreDesc:
		return ScoreDescending{}
	case StrategyNameAsc:
		return NameOrder{}
	case StrategyNameDesc:
		return NameOrder{Descending: true}
	case StrategyKeyAsc:
		return KeyAscending{}
	case StrategyRandom:
		if rng == nil {
			rng = NewShuffleRNG(EntropySeed())
		}
		return NewRandomOrder(rng)
	default:
		panic(fmt.Sprintf("unhandled ordering strategy %q", name))
	}
}
