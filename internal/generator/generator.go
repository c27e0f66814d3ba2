// Package generator picks vocabulary entries at random.
package generator

import (
	"math/rand"
	"time"
)

// Generator picks entry indices uniformly, or by weight once weights are set.
type Generator struct {
	rnd     *rand.Rand
	weights []float64
	total   float64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// WithWeights makes Pick favor indices with larger weights. Weights apply
// only when Pick is asked for exactly len(weights) indices.
func (g *Generator) WithWeights(weights []float64) *Generator {
	g.weights = weights
	g.total = 0
	for _, w := range weights {
		g.total += w
	}
	return g
}

// Pick returns an index in [0, n).
func (g *Generator) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	if len(g.weights) != n || g.total <= 0 {
		return g.rnd.Intn(n)
	}
	r := g.rnd.Float64() * g.total
	acc := 0.0
	for i, w := range g.weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return n - 1
}

// Weights scores each spelling as 1 plus factor for every character in
// weakSet it contains.
func Weights(spellings []string, weakSet map[byte]struct{}, factor float64) []float64 {
	weights := make([]float64, len(spellings))
	for i, s := range spellings {
		weakCount := 0
		for j := 0; j < len(s); j++ {
			if _, ok := weakSet[s[j]]; ok {
				weakCount++
			}
		}
		weights[i] = 1.0 + float64(weakCount)*factor
	}
	return weights
}
