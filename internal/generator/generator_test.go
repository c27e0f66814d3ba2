package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickInRange(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 200; i++ {
		idx := g.Pick(5)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 5)
	}
	assert.Equal(t, 0, g.Pick(1))
	assert.Equal(t, 0, g.Pick(0))
}

func TestPickDeterministicWithSeed(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Pick(10), b.Pick(10))
	}
}

func TestWeights(t *testing.T) {
	weak := map[byte]struct{}{'k': {}, 'y': {}}
	got := Weights([]string{"kyou", "ame", "kakko"}, weak, 2)
	assert.Equal(t, []float64{5, 1, 7}, got)
}

func TestWeightedPickFavorsHeavyIndex(t *testing.T) {
	g := NewSeeded(7).WithWeights([]float64{0, 0, 1})
	for i := 0; i < 50; i++ {
		assert.Equal(t, 2, g.Pick(3))
	}
	// Mismatched length falls back to uniform.
	counts := map[int]int{}
	for i := 0; i < 300; i++ {
		counts[g.Pick(2)]++
	}
	assert.Len(t, counts, 2)
}
