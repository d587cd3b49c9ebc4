package services

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"reviews-dashboard/catalog"
	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, utils.LevelDebug) }

func valid(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func review(loc, label string) *models.Review {
	return &models.Review{Location: loc, Sentiment: valid(label)}
}

func aggregate(loc string, mentions, pos int) models.LocationAggregate {
	return models.LocationAggregate{
		Location: loc, Mentions: mentions, Positive: pos, Negative: mentions - pos,
		PositiveRatio: float64(pos) / float64(mentions),
	}
}

func TestDetectReviewColumnByName(t *testing.T) {
	table := models.NewTable("lugar", "Comentario", "Review_Lematizada")
	table.AppendStrings("Zocalo", "muy bonito", "bonito")

	col, ok := DetectReviewColumn(table, DefaultReviewCandidates)
	if !ok || col != "Comentario" {
		t.Errorf("DetectReviewColumn = %q, %v; want Comentario (first in table order)", col, ok)
	}
}

func TestDetectReviewColumnHeuristic(t *testing.T) {
	table := models.NewTable("lugar", "score", "opinion", "notes")
	table.AppendStrings("Zocalo", "0.9", "Una plaza enorme con mucha historia", "")
	table.AppendStrings("Templo Mayor", "0.8", "Vestigio azteca fascinante", "x")
	table.AppendStrings("Cineteca", "0.7", "", "")

	col, ok := DetectReviewColumn(table, DefaultReviewCandidates)
	if !ok || col != "opinion" {
		t.Errorf("DetectReviewColumn = %q, %v; want opinion", col, ok)
	}
}

func TestDetectReviewColumnSamplesFirstValues(t *testing.T) {
	table := models.NewTable("early", "steady")
	for i := 0; i < 300; i++ {
		early := strings.Repeat("a", 10)
		if i >= resolverSampleSize {
			early = strings.Repeat("a", 1000)
		}
		table.AppendStrings(early, strings.Repeat("b", 20))
	}

	// Only the first 200 values are read, so the long tail of "early" is ignored.
	col, ok := DetectReviewColumn(table, DefaultReviewCandidates)
	if !ok || col != "steady" {
		t.Errorf("DetectReviewColumn = %q, %v; want steady", col, ok)
	}
}

func TestDetectReviewColumnSkip(t *testing.T) {
	table := models.NewTable("lugar", "sent_label")
	table.AppendStrings("reseñas_Museo_Soumaya", "POS")

	if col, ok := DetectReviewColumn(table, DefaultReviewCandidates, ColLocation, ColSentiment); ok {
		t.Errorf("skipped columns resolved to %q", col)
	}
}

func TestDetectReviewColumnEmpty(t *testing.T) {
	if col, ok := DetectReviewColumn(models.NewTable(), DefaultReviewCandidates); ok {
		t.Errorf("empty table resolved to %q", col)
	}

	numeric := models.NewTable("a", "b")
	numeric.AppendStrings("1", "2.5")
	if col, ok := DetectReviewColumn(numeric, DefaultReviewCandidates); ok {
		t.Errorf("numeric-only table resolved to %q", col)
	}
}

func TestNormalizeMuseoExample(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel")
	raw.AppendStrings("reseñas_MuseoX", "POS")
	raw.AppendStrings("reseñas_MuseoX", "POS")
	raw.AppendStrings("reseñas_MuseoX", "NEG")

	n, err := NewNormalizer(newTestLogger(), NormalizerOptions{}).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	aggs := Aggregate(n.Reviews)
	if len(aggs) != 1 {
		t.Fatalf("aggregates: got %d, want 1", len(aggs))
	}

	got := aggs[0]
	if got.Location != "MuseoX" || got.Mentions != 3 || got.Positive != 2 || got.Negative != 1 || got.Neutral != 0 {
		t.Errorf("aggregate: got %+v", got)
	}
	if math.Abs(got.PositiveRatio-0.667) > 0.001 {
		t.Errorf("PositiveRatio: got %.4f, want 0.667", got.PositiveRatio)
	}
	if raw.Columns[0] != "Lugar" {
		t.Error("Normalize must not rename the caller's table")
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	raw := models.NewTable("Lugar", "Rating")
	raw.AppendStrings("reseñas_MuseoX", "5")

	_, err := NewNormalizer(newTestLogger(), NormalizerOptions{}).Normalize(raw)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), ColSentiment) {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestCleanLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"reseñas_Palacio_de_Bellas_Artes", "Palacio de Bellas Artes"},
		{"reseñas_Zocalo", "Zocalo"},
		{"  Castillo_de_Chapultepec ", "Castillo de Chapultepec"},
		{"Museo_reseñas_X", "Museo reseñas X"},
		{"reseñas_", ""},
	}
	for _, tt := range tests {
		if got := CleanLocation(valid(tt.raw)); got != tt.want {
			t.Errorf("CleanLocation(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
	if got := CleanLocation(sql.NullString{}); got != "" {
		t.Errorf("missing location = %q", got)
	}
}

func TestCleanTopic(t *testing.T) {
	tests := []struct {
		cell     sql.NullString
		want     string
		assigned bool
	}{
		{valid("3"), "3", true},
		{valid(" 12.0 "), "12", true},
		{valid("neg_4"), "neg_4", true},
		{valid("-1"), "", false},
		{valid("-1.0"), "", false},
		{valid(" "), "", false},
		{valid("None"), "", false},
		{valid("none"), "none", true},
		{sql.NullString{}, "", false},
	}
	for _, tt := range tests {
		got, assigned := cleanTopic(tt.cell)
		if got != tt.want || assigned != tt.assigned {
			t.Errorf("cleanTopic(%+v) = %q, %v; want %q, %v", tt.cell, got, assigned, tt.want, tt.assigned)
		}
	}
}

func TestNormalizeUnassignedTopics(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel", "Topic")
	raw.AppendStrings("reseñas_A", "POS", "1")
	raw.AppendStrings("reseñas_A", "NEG", "-1")
	raw.AppendStrings("reseñas_A", "NEU", "")

	kept, err := NewNormalizer(newTestLogger(), NormalizerOptions{}).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(kept.Reviews) != 3 {
		t.Fatalf("reviews kept: got %d, want 3", len(kept.Reviews))
	}
	if kept.Reviews[1].Topic.Valid || kept.Reviews[2].Topic.Valid {
		t.Error("sentinel topics should be missing")
	}
	if agg := Aggregate(kept.Reviews)[0]; agg.Mentions != 3 {
		t.Errorf("sentinel-topic rows must still count toward sentiment, got %d mentions", agg.Mentions)
	}

	dropped, err := NewNormalizer(newTestLogger(), NormalizerOptions{DropUnassignedTopics: true}).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(dropped.Reviews) != 1 || dropped.Dropped != 2 {
		t.Errorf("drop mode: got %d reviews, %d dropped", len(dropped.Reviews), dropped.Dropped)
	}
}

func TestNormalizeReviewText(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel", "Review", "Review_Lematizada", "SentScore")
	raw.AppendStrings("reseñas_A", "POS", "Muy bonito lugar", "bonito lugar", "0.93")

	n, err := NewNormalizer(newTestLogger(), NormalizerOptions{}).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	r := n.Reviews[0]
	if n.ReviewColumn != ColReviewText || r.Text.String != "Muy bonito lugar" {
		t.Errorf("text column %q, text %+v", n.ReviewColumn, r.Text)
	}
	if r.Lemmas.String != "bonito lugar" {
		t.Errorf("lemmas: got %+v", r.Lemmas)
	}
	if !r.Score.Valid || r.Score.Float64 != 0.93 {
		t.Errorf("score: got %+v", r.Score)
	}
	if r.Topic.Valid || n.HasTopics {
		t.Error("no topic column means every topic is missing")
	}
}

func TestFocusLocationsComeFromNormalizedInput(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel")
	labels := []string{"POS", "NEG", "NEU"}
	for i := 0; i < 40; i++ {
		raw.AppendStrings(fmt.Sprintf("reseñas_Lugar_%02d", i%15), labels[i%len(labels)])
	}
	raw.AppendStrings("", "POS")

	n, err := NewNormalizer(newTestLogger(), NormalizerOptions{}).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	locations := n.Locations()
	if locations.Size() != 15 {
		t.Fatalf("distinct locations: got %d, want 15", locations.Size())
	}

	focus := SelectFocus(Aggregate(n.Reviews), 4)
	if focus.Len() != 8 {
		t.Errorf("focus size: got %d, want 8", focus.Len())
	}
	for _, a := range focus.All() {
		if !locations.Contains(a.Location) {
			t.Errorf("focus location %q is not a normalized location", a.Location)
		}
	}
}

func TestAggregateSubCountsNeverExceedMentions(t *testing.T) {
	reviews := []*models.Review{
		review("A", "POS"), review("A", "NEG"), review("A", "NEU"),
		review("B", "POS"), review("B", "positive"), review("B", "pos"),
		{Location: "C"},
	}

	for _, a := range Aggregate(reviews) {
		sum := a.Positive + a.Negative + a.Neutral
		if sum > a.Mentions {
			t.Errorf("%s: sub-counts %d exceed mentions %d", a.Location, sum, a.Mentions)
		}
		if a.PositiveRatio < 0 || a.PositiveRatio > 1 {
			t.Errorf("%s: ratio %.3f out of [0,1]", a.Location, a.PositiveRatio)
		}
		switch a.Location {
		case "A":
			if sum != a.Mentions {
				t.Errorf("A: recognized labels only, want equality, got %d/%d", sum, a.Mentions)
			}
		case "C":
			if a.Mentions != 0 || a.PositiveRatio != 0 {
				t.Errorf("C: missing labels should not count, got %+v", a)
			}
		}
	}
}

// Unrecognized labels count toward mentions but no bucket. This keeps the
// ratio literal: "positive" and "pos" do not count as POS.
func TestAggregateUnrecognizedLabelsUndercount(t *testing.T) {
	aggs := Aggregate([]*models.Review{review("B", "POS"), review("B", "positive"), review("B", "pos")})
	got := aggs[0]
	if got.Mentions != 3 || got.Positive != 1 {
		t.Errorf("got %+v; want 3 mentions, 1 positive", got)
	}
	if math.Abs(got.PositiveRatio-1.0/3.0) > 1e-9 {
		t.Errorf("ratio: got %.4f", got.PositiveRatio)
	}
}

func TestSelectFocusOrdering(t *testing.T) {
	aggs := []models.LocationAggregate{
		aggregate("A", 10, 9),
		aggregate("B", 20, 18),
		aggregate("C", 10, 1),
		aggregate("D", 10, 5),
		aggregate("E", 10, 3),
	}

	focus := SelectFocus(aggs, 2)
	if got := names(focus.Top); got != "B,A" {
		t.Errorf("top: got %s, want B,A (ratio tie broken by mentions)", got)
	}
	if got := names(focus.Bottom); got != "C,E" {
		t.Errorf("bottom: got %s, want C,E", got)
	}
	if got := names(focus.All()); got != "B,A,C,E" {
		t.Errorf("all: got %s", got)
	}
}

func TestSelectFocusDisjointAndSubset(t *testing.T) {
	var aggs []models.LocationAggregate
	for i := 0; i < 30; i++ {
		aggs = append(aggs, aggregate(fmt.Sprintf("L%02d", i), 10+i%7, i%11))
	}
	known := utils.NewStringSet()
	for _, a := range aggs {
		known.Add(a.Location)
	}

	focus := SelectFocus(aggs, 12)
	top := utils.NewStringSet()
	for _, a := range focus.Top {
		top.Add(a.Location)
	}
	for _, a := range focus.Bottom {
		if top.Contains(a.Location) {
			t.Errorf("%s is in both top and bottom", a.Location)
		}
	}
	for _, a := range focus.All() {
		if !known.Contains(a.Location) {
			t.Errorf("%s is not a known location", a.Location)
		}
	}
	if len(focus.Top) != 12 || len(focus.Bottom) != 12 {
		t.Errorf("sizes: top %d bottom %d", len(focus.Top), len(focus.Bottom))
	}
}

func TestSelectFocusFewLocations(t *testing.T) {
	aggs := []models.LocationAggregate{aggregate("A", 4, 4), aggregate("B", 4, 2), aggregate("C", 4, 1)}

	focus := SelectFocus(aggs, 2)
	if len(focus.Top) != 2 || len(focus.Bottom) != 1 {
		t.Fatalf("N=2 with 3 locations: top %d bottom %d; want 2 and 1", len(focus.Top), len(focus.Bottom))
	}
	if focus.Bottom[0].Location != "C" {
		t.Errorf("bottom: got %s", focus.Bottom[0].Location)
	}

	if f := SelectFocus(aggs, 5); len(f.Top) != 3 || len(f.Bottom) != 0 {
		t.Errorf("N > locations: top %d bottom %d", len(f.Top), len(f.Bottom))
	}
	if f := SelectFocus(aggs, 0); f.Len() != 0 {
		t.Errorf("N=0 should be empty, got %d", f.Len())
	}
}

func TestTopicSummarizerThreshold(t *testing.T) {
	cat, err := catalog.Parse([]byte("topics:\n  \"1\": uno\n"))
	if err != nil {
		t.Fatal(err)
	}
	var reviews []*models.Review
	add := func(loc, topic string, n int) {
		for i := 0; i < n; i++ {
			r := review(loc, "POS")
			r.Topic = valid(topic)
			reviews = append(reviews, r)
		}
	}
	add("A", "1", 5)
	add("A", "2", 2)
	add("B", "2", 2)
	add("Outside", "1", 50)
	add("Outside", "9", 50)

	focus := models.FocusSet{Top: []models.LocationAggregate{{Location: "A"}}, Bottom: []models.LocationAggregate{{Location: "B"}}}
	got := NewTopicSummarizer(cat, 4).Summarize(reviews, focus)

	if len(got) != 2 {
		t.Fatalf("topics: got %+v", got)
	}
	if got[0].TopicID != "1" || got[0].Mentions != 5 || got[0].Description != "uno" || got[0].Label != "Tópico 1" {
		t.Errorf("topic 1: got %+v", got[0])
	}
	if got[1].TopicID != "2" || got[1].Mentions != 4 || got[1].Description != "" {
		t.Errorf("topic 2: got %+v", got[1])
	}
	for _, tp := range got {
		if tp.Mentions < 4 {
			t.Errorf("topic %s below threshold", tp.TopicID)
		}
	}
}

func TestTopicsOnlySentinelsIsEmpty(t *testing.T) {
	for _, rows := range []int{1, 10, 500} {
		raw := models.NewTable("Lugar", "SentLabel", "Topic")
		for i := 0; i < rows; i++ {
			raw.AppendStrings("reseñas_A", "POS", "-1")
		}
		svc := NewInsightService(newTestLogger(), InsightOptions{FocusSize: 2, MinTopicMentions: 0})
		report, err := svc.Generate(raw)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(report.Topics) != 0 {
			t.Errorf("%d rows of -1: got topics %+v", rows, report.Topics)
		}
	}
}

func TestWordFrequencies(t *testing.T) {
	reviews := []*models.Review{
		{Location: "A", Lemmas: valid("museo bonito, museo grande y de arte 2024")},
		{Location: "A", Lemmas: valid("Museo arte")},
	}
	words := WordFrequencies(reviews, 2)
	if len(words) != 2 || words[0] != (models.WordCount{Word: "museo", Count: 3}) || words[1].Word != "arte" {
		t.Errorf("words: got %+v", words)
	}
}

func TestWordFrequenciesFallsBackToTopics(t *testing.T) {
	reviews := []*models.Review{
		{Location: "A", Topic: valid("7"), Text: valid("y de")},
		{Location: "A", Topic: valid("7")},
	}
	words := WordFrequencies(reviews, 10)
	if len(words) != 1 || words[0].Word != "7" || words[0].Count != 2 {
		t.Errorf("words: got %+v", words)
	}
	if got := WordFrequencies(nil, 10); len(got) != 0 {
		t.Errorf("no reviews: got %+v", got)
	}
}

func TestInsightWordsFromTopicsWithoutTextColumn(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel", "Topic")
	for i := 0; i < 3; i++ {
		raw.AppendStrings("reseñas_Museo_Soumaya", "POS", "16")
	}

	report, err := NewInsightService(newTestLogger(), InsightOptions{FocusSize: 12, MinTopicMentions: 40}).Generate(raw)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.ReviewColumn != "" {
		t.Errorf("review column: got %q, want none", report.ReviewColumn)
	}
	if len(report.Words) != 1 || report.Words[0] != (models.WordCount{Word: "16", Count: 3}) {
		t.Errorf("words: got %+v, want [{16 3}]", report.Words)
	}
}

func TestInsightGenerateAndPrint(t *testing.T) {
	raw := models.NewTable("Lugar", "SentLabel", "Topic", "Review")
	for i := 0; i < 6; i++ {
		raw.AppendStrings("reseñas_Museo_Soumaya", "POS", "0", "arte increíble")
		raw.AppendStrings("reseñas_Six_Flags", "NEG", "24", "filas largas")
		raw.AppendStrings("reseñas_Zocalo", "NEU", "34", "plaza enorme")
	}
	raw.AppendStrings("", "POS", "0", "sin lugar")

	svc := NewInsightService(newTestLogger(), InsightOptions{FocusSize: 1, MinTopicMentions: 5})
	report, err := svc.Generate(raw)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.TotalReviews != 19 || report.KeptReviews != 18 || report.DroppedRows != 1 {
		t.Errorf("totals: %d/%d/%d", report.TotalReviews, report.KeptReviews, report.DroppedRows)
	}
	if names(report.Focus.Top) != "Museo Soumaya" || names(report.Focus.Bottom) != "Six Flags" {
		t.Errorf("focus: top %s bottom %s", names(report.Focus.Top), names(report.Focus.Bottom))
	}
	if len(report.Topics) != 2 {
		t.Errorf("topics: got %+v", report.Topics)
	}
	if math.Abs(report.AvgPositivePercent-100.0/3.0) > 1e-9 {
		t.Errorf("avg positive: got %.3f", report.AvgPositivePercent)
	}

	var buf bytes.Buffer
	svc.Print(&buf, report)
	out := buf.String()
	for _, want := range []string{"Museo Soumaya", "Six Flags", "Tópico 0", "33.3%"} {
		if !strings.Contains(out, want) {
			t.Errorf("printed report missing %q", want)
		}
	}
}

func names(aggs []models.LocationAggregate) string {
	out := make([]string, len(aggs))
	for i, a := range aggs {
		out[i] = a.Location
	}
	return strings.Join(out, ",")
}
