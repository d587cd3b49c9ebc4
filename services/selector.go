package services

import (
	"sort"

	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// SelectFocus picks the n best rated locations (positive ratio, then mentions,
// both descending) and, from the rest, the n worst rated by ratio ascending.
// With fewer than 2n locations the bottom half gets whatever remains.
func SelectFocus(aggs []models.LocationAggregate, n int) models.FocusSet {
	if n <= 0 || len(aggs) == 0 {
		return models.FocusSet{}
	}

	ranked := make([]models.LocationAggregate, len(aggs))
	copy(ranked, aggs)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PositiveRatio != ranked[j].PositiveRatio {
			return ranked[i].PositiveRatio > ranked[j].PositiveRatio
		}
		return ranked[i].Mentions > ranked[j].Mentions
	})

	top := ranked[:min(n, len(ranked))]
	inTop := utils.NewStringSet()
	for _, a := range top {
		inTop.Add(a.Location)
	}

	rest := make([]models.LocationAggregate, 0, len(ranked)-len(top))
	for _, a := range ranked {
		if !inTop.Contains(a.Location) {
			rest = append(rest, a)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].PositiveRatio < rest[j].PositiveRatio
	})

	return models.FocusSet{
		Top:    append([]models.LocationAggregate(nil), top...),
		Bottom: rest[:min(n, len(rest))],
	}
}
