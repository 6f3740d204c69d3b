package geom

import "math/rand"

// Shuffle permutes items in place. Each position i swaps with a uniformly
// chosen position in [i, len).
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := 0; i < len(items)-1; i++ {
		j := i + rng.Intn(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
}

// ShuffledDirections returns the four door directions in random order.
func ShuffledDirections(rng *rand.Rand) []DoorDirection {
	dirs := AllDirections()
	Shuffle(rng, dirs)
	return dirs
}
