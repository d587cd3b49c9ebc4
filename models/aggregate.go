package models

// LocationAggregate holds the sentiment counts for one location.
type LocationAggregate struct {
	Location      string  `json:"location"`
	Mentions      int     `json:"mentions"`
	Positive      int     `json:"pos"`
	Negative      int     `json:"neg"`
	Neutral       int     `json:"neu"`
	PositiveRatio float64 `json:"pos_ratio"`
}

// FocusSet is the best and worst rated locations, top first.
type FocusSet struct {
	Top    []LocationAggregate `json:"top"`
	Bottom []LocationAggregate `json:"bottom"`
}

// All returns top then bottom.
func (f FocusSet) All() []LocationAggregate {
	out := make([]LocationAggregate, 0, len(f.Top)+len(f.Bottom))
	out = append(out, f.Top...)
	return append(out, f.Bottom...)
}

// Len is the number of focus locations.
func (f FocusSet) Len() int {
	return len(f.Top) + len(f.Bottom)
}

// Contains reports whether location is in either half.
func (f FocusSet) Contains(location string) bool {
	for _, a := range f.Top {
		if a.Location == location {
			return true
		}
	}
	for _, a := range f.Bottom {
		if a.Location == location {
			return true
		}
	}
	return false
}

// TopicAggregate is a topic's mention count inside the focus set.
type TopicAggregate struct {
	TopicID     string `json:"topic_id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Mentions    int    `json:"mentions"`
}

// WordCount is one word-cloud entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report holds everything the pipeline computes over one input table.
type Report struct {
	TotalReviews       int                 `json:"total_reviews"`
	KeptReviews        int                 `json:"kept_reviews"`
	DroppedRows        int                 `json:"dropped_rows"`
	ReviewColumn       string              `json:"review_column,omitempty"`
	Locations          []LocationAggregate `json:"locations"`
	Focus              FocusSet            `json:"focus"`
	Topics             []TopicAggregate    `json:"topics"`
	AvgPositivePercent float64             `json:"avg_positive_pct"`
	Words              []WordCount         `json:"-"`
	FocusSize          int                 `json:"focus_size"`
	MinTopicMentions   int                 `json:"min_topic_mentions"`
}
