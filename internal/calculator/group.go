package calculator

import (
	"sort"

	"CopperAnalytics/internal/model"
)

type group struct {
	key   string
	sum   float64
	count int
}

func (g *group) mean() float64 { return g.sum / float64(g.count) }

// groupBy buckets prices by key. Groups are returned in order of first
// appearance, which is chronological for a sorted series.
func groupBy(series *model.PriceSeries, key func(model.Observation) string) []*group {
	index := make(map[string]*group)
	var groups []*group
	series.Each(func(_ int, o model.Observation) {
		k := key(o)
		g, ok := index[k]
		if !ok {
			g = &group{key: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.sum += o.Price
		g.count++
	})
	return groups
}

// best returns the key with the greatest mean. Keys are visited in lexical
// order and only a strictly greater mean replaces the leader, so exact ties
// resolve to the lexically smallest key.
func best(groups []*group) string {
	sorted := make([]*group, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	var winner *group
	for _, g := range sorted {
		if winner == nil || g.mean() > winner.mean() {
			winner = g
		}
	}
	if winner == nil {
		return ""
	}
	return winner.key
}

func roundedMeans(groups []*group) map[string]float64 {
	out := make(map[string]float64, len(groups))
	for _, g := range groups {
		out[g.key] = Round(g.mean(), PricePlaces)
	}
	return out
}
