package search

import "math/rand"

const defaultSeed int64 = 1

// workerRNG returns an independent deterministic stream for a worker.
// Worker 0 gets nil and scans neighbourhoods in natural order.
func workerRNG(seed int64, worker int) *rand.Rand {
	if worker == 0 {
		return nil
	}
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(deriveSeed(seed, uint64(worker))))
}

// deriveSeed mixes a parent seed and a stream id with a SplitMix64 finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
