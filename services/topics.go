package services

import (
	"sort"

	"reviews-dashboard/catalog"
	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// TopicSummarizer counts topic mentions inside the focus set.
type TopicSummarizer struct {
	catalog     *catalog.Catalog
	minMentions int
}

// NewTopicSummarizer creates a summarizer that keeps topics with at least
// minMentions mentions.
func NewTopicSummarizer(c *catalog.Catalog, minMentions int) *TopicSummarizer {
	return &TopicSummarizer{catalog: c, minMentions: minMentions}
}

// Summarize returns the focus-set topics that clear the threshold, most
// mentioned first. Reviews without a topic are ignored; if none has one the
// result is empty.
func (s *TopicSummarizer) Summarize(reviews []*models.Review, focus models.FocusSet) []models.TopicAggregate {
	inFocus := utils.NewStringSet()
	for _, a := range focus.All() {
		inFocus.Add(a.Location)
	}

	counts := make(map[string]int)
	for _, r := range reviews {
		if !r.Topic.Valid || !inFocus.Contains(r.Location) {
			continue
		}
		counts[r.Topic.String]++
	}

	out := make([]models.TopicAggregate, 0, len(counts))
	for id, n := range counts {
		if n < s.minMentions {
			continue
		}
		out = append(out, models.TopicAggregate{
			TopicID:     id,
			Label:       s.catalog.Label(id),
			Description: s.catalog.Describe(id),
			Mentions:    n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].TopicID < out[j].TopicID
	})
	return out
}
