// Package rng provides the thread-local pseudo-random sources used by the
// partitioning engine. Each worker owns a private stream: *rand.Rand is not
// safe for concurrent use, and the engine's parallel phases never share one.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
)

// Source wraps a private pseudo-random stream.
type Source struct {
	r *mrand.Rand
}

// goldenRatio64 is the 64-bit golden ratio constant used to mix worker
// identity into a seed; kept as a var (not const) so the bit pattern can be
// reinterpreted as int64 without tripping the untyped-constant overflow check.
var goldenRatio64 uint64 = 0x9E3779B97F4A7C15

// FromEntropy seeds a Source from the process entropy pool, mixed with a
// caller-supplied worker identity so concurrently spawned workers never share
// a seed. Matches the "thread owns a PRNG seeded from process entropy, keyed
// by thread identity" policy: outputs are not bit-reproducible across runs.
func FromEntropy(workerID int) *Source {
	var seed int64
	if n, err := rand.Int(rand.Reader, big.NewInt(1<<62)); err == nil {
		seed = n.Int64()
	} else {
		// Entropy source unavailable: fall back to a seed drawn from
		// math/rand's global source, still mixed with worker identity so
		// distinct workers diverge.
		seed = fallbackSeed()
	}
	seed ^= int64(workerID)*int64(goldenRatio64) + 1
	return &Source{r: mrand.New(mrand.NewSource(seed))} //nolint:gosec
}

// FromSeed builds a deterministic Source for reproducible tests, distinct
// per worker index.
func FromSeed(seed int64, workerID int) *Source {
	return &Source{r: mrand.New(mrand.NewSource(seed + int64(workerID)*1_000_003))}
}

func fallbackSeed() int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(mrand.Int63()))
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// Intn returns a uniform value in [0, n).
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// IntRange returns a uniform value in [low, high] inclusive.
func (s *Source) IntRange(low, high int) int {
	if high <= low {
		return low
	}
	return low + s.r.Intn(high-low+1)
}

// Shuffle permutes a slice of length n in place via swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}
