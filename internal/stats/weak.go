package stats

import (
	"sort"

	"github.com/verte-zerg/kanatype/internal/model"
)

// SelectWeakKeys selects the lowest-accuracy keys from aggregates.
func SelectWeakKeys(aggs []model.KeyAggregate, top int) map[byte]struct{} {
	weakSet := map[byte]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.KeyAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Key != "" && agg.Key != " " {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := KeyAccuracy(candidates[i])
		aj := KeyAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Key < candidates[j].Key
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].Key[0]] = struct{}{}
	}
	return weakSet
}
