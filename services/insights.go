package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reviews-dashboard/catalog"
	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// wordCloudLimit caps the number of words drawn in the cloud.
const wordCloudLimit = 200

// InsightOptions configure the pipeline.
type InsightOptions struct {
	FocusSize            int
	MinTopicMentions     int
	DropUnassignedTopics bool
	Catalog              *catalog.Catalog
}

// InsightService runs the review pipeline over a loaded table.
type InsightService struct {
	logger     *utils.Logger
	normalizer *Normalizer
	topics     *TopicSummarizer
	focusSize  int
	minTopic   int
}

func NewInsightService(logger *utils.Logger, opts InsightOptions) *InsightService {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	return &InsightService{
		logger:     logger,
		normalizer: NewNormalizer(logger, NormalizerOptions{DropUnassignedTopics: opts.DropUnassignedTopics}),
		topics:     NewTopicSummarizer(cat, opts.MinTopicMentions),
		focusSize:  opts.FocusSize,
		minTopic:   opts.MinTopicMentions,
	}
}

// Generate normalizes raw, aggregates it per location, selects the focus set
// and summarizes its topics. raw itself is only read, for the review total.
func (s *InsightService) Generate(raw *models.Table) (*models.Report, error) {
	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	aggs := Aggregate(normalized.Reviews)
	focus := SelectFocus(aggs, s.focusSize)

	topics := []models.TopicAggregate{}
	if normalized.HasTopics {
		topics = s.topics.Summarize(normalized.Reviews, focus)
	}

	report := &models.Report{
		TotalReviews:       raw.Len(),
		KeptReviews:        len(normalized.Reviews),
		DroppedRows:        normalized.Dropped,
		ReviewColumn:       normalized.ReviewColumn,
		Locations:          aggs,
		Focus:              focus,
		Topics:             topics,
		AvgPositivePercent: MeanPositiveRatio(aggs) * 100,
		Words:              WordFrequencies(normalized.Reviews, wordCloudLimit),
		FocusSize:          s.focusSize,
		MinTopicMentions:   s.minTopic,
	}

	s.logger.Info("[insights] %d locations, focus %d (top %d / bottom %d), %d topics ≥ %d mentions",
		len(aggs), focus.Len(), len(focus.Top), len(focus.Bottom), len(topics), s.minTopic)
	return report, nil
}

// Print renders the report as terminal tables.
func (s *InsightService) Print(w io.Writer, r *models.Report) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 ATTRACTION REVIEW INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	overview := newTable(w, "Overview")
	overview.AppendRows([]table.Row{
		{"Total reviews analysed", r.TotalReviews},
		{"Reviews kept", r.KeptReviews},
		{"Rows dropped", r.DroppedRows},
		{"Locations", len(r.Locations)},
		{"Average % positive (per location)", fmt.Sprintf("%.1f%%", r.AvgPositivePercent)},
		{"Focus locations (top / bottom)", fmt.Sprintf("%d (%d / %d)", r.Focus.Len(), len(r.Focus.Top), len(r.Focus.Bottom))},
	})
	overview.Render()
	fmt.Fprintln(w)

	renderLocations(w, fmt.Sprintf("Top %d Best Rated", r.FocusSize), r.Focus.Top)
	renderLocations(w, fmt.Sprintf("Bottom %d Worst Rated", r.FocusSize), r.Focus.Bottom)

	topics := newTable(w, fmt.Sprintf("Focus Topics (≥ %d mentions)", r.MinTopicMentions))
	topics.AppendHeader(table.Row{"Topic", "Mentions", "Description"})
	if len(r.Topics) == 0 {
		topics.AppendRow(table.Row{"-", 0, "No topic clears the threshold"})
	}
	for _, t := range r.Topics {
		topics.AppendRow(table.Row{t.Label, t.Mentions, truncate(t.Description, 60)})
	}
	topics.Render()
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func renderLocations(w io.Writer, title string, aggs []models.LocationAggregate) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"#", "Location", "Mentions", "Pos", "Neu", "Neg", "% Pos"})
	for i, a := range aggs {
		t.AppendRow(table.Row{i + 1, truncate(a.Location, 40), a.Mentions, a.Positive, a.Neutral, a.Negative,
			fmt.Sprintf("%.1f%%", a.PositiveRatio*100)})
	}
	if len(aggs) == 0 {
		t.AppendRow(table.Row{"", "No locations", "", "", "", "", ""})
	}
	t.Render()
	fmt.Fprintln(w)
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.Style().Title.Colors = text.Colors{text.Bold, text.FgYellow}
	return t
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
