// Package charts turns pipeline aggregates into plotly figures and the
// word-cloud image.
package charts

import (
	"encoding/json"
	"fmt"

	"reviews-dashboard/models"
)

// Figure is a plotly figure: traces plus layout, serialized as-is to the page.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// JSON encodes the figure for embedding in a script tag.
func (f *Figure) JSON() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("charts: encode figure: %w", err)
	}
	return b, nil
}

func titleLayout(title string) map[string]any {
	return map[string]any{
		"title": map[string]any{"text": title, "font": map[string]any{"size": 20}},
		"font":  map[string]any{"size": 14},
	}
}

// SentimentBar builds a horizontal stacked bar chart of positive, neutral and
// negative counts per location, in the order given.
func SentimentBar(title string, aggs []models.LocationAggregate, palette []string) *Figure {
	colors := SentimentColors(palette)
	locations := make([]string, len(aggs))
	for i, a := range aggs {
		locations[i] = a.Location
	}

	series := []struct {
		name  string
		value func(models.LocationAggregate) int
	}{
		{SeriesPositive, func(a models.LocationAggregate) int { return a.Positive }},
		{SeriesNeutral, func(a models.LocationAggregate) int { return a.Neutral }},
		{SeriesNegative, func(a models.LocationAggregate) int { return a.Negative }},
	}

	fig := &Figure{Layout: titleLayout(title)}
	for _, s := range series {
		counts := make([]int, len(aggs))
		for i, a := range aggs {
			counts[i] = s.value(a)
		}
		fig.Data = append(fig.Data, map[string]any{
			"type":          "bar",
			"orientation":   "h",
			"name":          s.name,
			"x":             counts,
			"y":             locations,
			"text":          counts,
			"texttemplate":  "%{text}",
			"textposition":  "inside",
			"marker":        map[string]any{"color": colors[s.name]},
			"hovertemplate": "%{y}<br>" + s.name + ": %{x}<extra></extra>",
		})
	}

	fig.Layout["barmode"] = "stack"
	fig.Layout["xaxis"] = map[string]any{"title": map[string]any{"text": "Menciones", "font": map[string]any{"size": 18}}}
	fig.Layout["yaxis"] = map[string]any{"title": map[string]any{"text": ""}, "autorange": "reversed"}
	fig.Layout["legend"] = map[string]any{"title": map[string]any{"text": "sentiment"}}
	return fig
}

// TopSentimentTitle and BottomSentimentTitle name the two bar charts.
func TopSentimentTitle(n int) string    { return fmt.Sprintf("%d Lugares Mejor Evaluados", n) }
func BottomSentimentTitle(n int) string { return fmt.Sprintf("%d Lugares Peor Evaluados", n) }

// TreemapPlaceholderTitle is shown when no topic clears the threshold.
const TreemapPlaceholderTitle = "No hay suficientes menciones por tópico dentro del foco para mostrar un treemap."

// TopicTreemap builds a one-level treemap of topic mentions under an unnamed
// root, or a placeholder figure when topics is empty.
func TopicTreemap(topics []models.TopicAggregate) *Figure {
	if len(topics) == 0 {
		return treemapPlaceholder()
	}

	ids := []string{"root"}
	labels := []string{""}
	parents := []string{""}
	total := 0
	for _, t := range topics {
		total += t.Mentions
	}
	values := []int{total}
	descriptions := []string{""}

	for _, t := range topics {
		ids = append(ids, "topic-"+t.TopicID)
		labels = append(labels, t.Label)
		parents = append(parents, "root")
		values = append(values, t.Mentions)
		descriptions = append(descriptions, t.Description)
	}

	fig := &Figure{
		Data: []map[string]any{{
			"type":          "treemap",
			"ids":           ids,
			"labels":        labels,
			"parents":       parents,
			"values":        values,
			"branchvalues":  "total",
			"customdata":    descriptions,
			"textinfo":      "label+value",
			"textfont":      map[string]any{"size": 14},
			"root":          map[string]any{"color": "lightgrey"},
			"hovertemplate": "<b>%{label}</b><br>Menciones: %{value}<br>%{customdata}<extra></extra>",
		}},
		Layout: titleLayout("Tópicos mencionados en los lugares de interés (foco)"),
	}
	fig.Layout["template"] = "plotly_white"
	fig.Layout["margin"] = map[string]any{"l": 10, "r": 10, "t": 60, "b": 10}
	fig.Layout["height"] = 500
	return fig
}

func treemapPlaceholder() *Figure {
	hidden := map[string]any{"showgrid": false, "showticklabels": false, "zeroline": false}
	return &Figure{
		Data: []map[string]any{{
			"type":      "heatmap",
			"z":         [][]int{{0}},
			"showscale": false,
		}},
		Layout: map[string]any{
			"title":    map[string]any{"text": TreemapPlaceholderTitle},
			"template": "plotly_white",
			"xaxis":    hidden,
			"yaxis":    hidden,
			"height":   200,
			"margin":   map[string]any{"t": 60, "b": 20, "l": 20, "r": 20},
		},
	}
}
