package alloc

import (
	"math/rand"
	"os"
	"time"
)

// NewShuffleRNG returns the random source used by the random ordering
// strategy. Two sources with the same seed produce identical orderings.
//
// Thread-safety: the returned *rand.Rand is NOT thread-safe.
func NewShuffleRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// EntropySeed derives a process-wide seed for runs where the caller did not
// fix one. Orderings produced from it are not reproducible across processes.
func EntropySeed() int64 {
	return time.Now().UnixNano() ^ int64(os.Getpid())<<32
}
