package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
)

// TopKeysByFrequency returns the top N keys by total frequency.
func TopKeysByFrequency(aggs []model.KeyAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.KeyAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Key < sorted[j].Key
		}
		return ti > tj
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return lo.Map(sorted[:n], func(agg model.KeyAggregate, _ int) string {
		return agg.Key
	})
}
