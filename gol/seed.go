package gol

import (
	"context"
	"math/rand"
)

// GenerateSeeds draws n distinct seeds from a generator seeded with src.
func GenerateSeeds(n int, src int64) []int64 {
	rng := rand.New(rand.NewSource(src))
	seen := make(map[int64]bool, n)
	seeds := make([]int64, 0, n)
	for len(seeds) < n {
		s := rng.Int63()
		if seen[s] {
			continue
		}
		seen[s] = true
		seeds = append(seeds, s)
	}
	return seeds
}

// DistributeSeeds scatters one seed per rank from the coordinator. Only
// rank 0's seeds are used.
func DistributeSeeds(ctx context.Context, c Communicator, seeds []int64) (int64, error) {
	return Scatter(ctx, c, 0, seeds)
}
