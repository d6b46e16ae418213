package spawn

import (
	"errors"
	"fmt"
)

// ErrInvalidDistribution is returned for tables with negative weights or a
// zero total.
var ErrInvalidDistribution = errors.New("spawn: invalid distribution")

// Rand is the random source the spawner draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Weighted pairs a value with an integer weight.
type Weighted[K comparable] struct {
	Value  K
	Weight int
}

// Distribution is a discrete distribution over a fixed table of values.
type Distribution[K comparable] struct {
	entries []Weighted[K]
	total   int
}

// NewDistribution builds a distribution. Zero weights are allowed as long as
// the total is positive.
func NewDistribution[K comparable](entries ...Weighted[K]) (*Distribution[K], error) {
	total := 0
	for _, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: weight %d for %v", ErrInvalidDistribution, e.Weight, e.Value)
		}
		total += e.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidDistribution)
	}
	return &Distribution[K]{entries: entries, total: total}, nil
}

// Draw picks a value with probability weight/total.
func (d *Distribution[K]) Draw(rng Rand) K {
	n := rng.IntN(d.total)
	for _, e := range d.entries {
		if n < e.Weight {
			return e.Value
		}
		n -= e.Weight
	}
	return d.entries[len(d.entries)-1].Value
}

// Probability returns the chance of drawing v.
func (d *Distribution[K]) Probability(v K) float64 {
	w := 0
	for _, e := range d.entries {
		if e.Value == v {
			w += e.Weight
		}
	}
	return float64(w) / float64(d.total)
}
