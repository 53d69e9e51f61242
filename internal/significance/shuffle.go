package significance

import (
	"math/rand"
	"time"
)

// Rand is the random source a trial draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Shuffle permutes s in place so that every permutation is equally likely
// (Fisher-Yates).
//
// Contract:
//
//	ensures s holds the same multiset of elements as before
//	ensures each of the len(s)! orderings has probability 1/len(s)!
func Shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// WorkerRand returns the random source for one worker, derived from a base
// seed so that workers draw independent streams.
func WorkerRand(seed int64, worker int) *rand.Rand {
	return rand.New(rand.NewSource(int64(splitmix64(uint64(seed) + uint64(worker)*0x9e3779b97f4a7c15))))
}

// splitmix64 scrambles x so that consecutive inputs give unrelated seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// clockSeed returns a non-zero seed from the wall clock.
func clockSeed() int64 {
	if s := time.Now().UnixNano(); s != 0 {
		return s
	}
	return 1
}
