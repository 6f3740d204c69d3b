package encounter

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var (
	// ErrEmptyPool is returned when a picker is built without entries.
	ErrEmptyPool = errors.New("encounter: empty enemy pool")
	// ErrBadWeight is returned for a negative weight or a zero total.
	ErrBadWeight = errors.New("encounter: invalid weight")
)

// Picker draws enemy IDs proportionally to their weights.
type Picker struct {
	ids    []string
	prefix []float64
	total  float64
}

// NewPicker builds the cumulative weights for ids. ids and weights must have
// the same length.
func NewPicker(ids []string, weights []float64) (*Picker, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyPool
	}
	if len(ids) != len(weights) {
		return nil, fmt.Errorf("%w: %d ids for %d weights", ErrBadWeight, len(ids), len(weights))
	}

	p := &Picker{
		ids:    append([]string(nil), ids...),
		prefix: make([]float64, len(weights)),
	}
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: %s has weight %g", ErrBadWeight, ids[i], w)
		}
		p.total += w
		p.prefix[i] = p.total
	}
	if p.total <= 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrBadWeight)
	}
	return p, nil
}

// Pick returns a random ID. A single-entry pool never touches rng.
func (p *Picker) Pick(rng *rand.Rand) string {
	if len(p.ids) == 1 {
		return p.ids[0]
	}

	point := rng.Float64() * p.total
	i := sort.Search(len(p.prefix), func(i int) bool {
		return p.prefix[i] > point
	})
	if i == len(p.ids) {
		i--
	}
	return p.ids[i]
}

// Len returns the number of entries.
func (p *Picker) Len() int {
	return len(p.ids)
}

// IDs returns the entries in pool order.
func (p *Picker) IDs() []string {
	return append([]string(nil), p.ids...)
}
