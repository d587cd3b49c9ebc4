package services

import (
	"sort"

	"reviews-dashboard/models"
)

// Aggregate groups reviews by location and counts sentiment labels.
//
// Mentions counts every row with a label present. Only the exact labels POS,
// NEG and NEU feed the three buckets, so an unrecognized label lowers the
// ratio without appearing in any bucket.
func Aggregate(reviews []*models.Review) []models.LocationAggregate {
	byLocation := make(map[string]*models.LocationAggregate)
	for _, r := range reviews {
		agg, ok := byLocation[r.Location]
		if !ok {
			agg = &models.LocationAggregate{Location: r.Location}
			byLocation[r.Location] = agg
		}
		if !r.Sentiment.Valid {
			continue
		}

		agg.Mentions++
		switch r.Sentiment.String {
		case models.LabelPositive:
			agg.Positive++
		case models.LabelNegative:
			agg.Negative++
		case models.LabelNeutral:
			agg.Neutral++
		}
	}

	out := make([]models.LocationAggregate, 0, len(byLocation))
	for _, agg := range byLocation {
		if agg.Mentions > 0 {
			agg.PositiveRatio = float64(agg.Positive) / float64(agg.Mentions)
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

// MeanPositiveRatio averages PositiveRatio over all locations.
func MeanPositiveRatio(aggs []models.LocationAggregate) float64 {
	if len(aggs) == 0 {
		return 0
	}
	var sum float64
	for _, a := range aggs {
		sum += a.PositiveRatio
	}
	return sum / float64(len(aggs))
}
