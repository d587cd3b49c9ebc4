package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// Canonical column names.
const (
	ColLocation   = "lugar"
	ColSentiment  = "sent_label"
	ColScore      = "sent_score"
	ColTopic      = "topic"
	ColReviewText = "review_text"
)

// canonicalColumns hold structured values and are never review text.
var canonicalColumns = []string{ColLocation, ColSentiment, ColScore, ColTopic}

// locationPrefix is stripped from the front of every location identifier.
const locationPrefix = "reseñas_"

// ErrMissingColumns is returned when the mandatory columns are absent.
var ErrMissingColumns = errors.New("missing mandatory columns")

// sourceColumns maps known source headers to canonical names.
var sourceColumns = map[string]string{
	"Lugar":     ColLocation,
	"SentLabel": ColSentiment,
	"SentScore": ColScore,
	"Topic":     ColTopic,
	"Review":    ColReviewText,
	"review":    ColReviewText,
}

// unassignedTopics are the literal topic values meaning "no topic assigned".
var unassignedTopics = map[string]struct{}{
	"-1":   {},
	"-1.0": {},
	"":     {},
	"None": {},
	"nan":  {},
}

// integralFloat matches ids that went through a float column, e.g. "12.0".
var integralFloat = regexp.MustCompile(`^(-?\d+)\.0+$`)

// NormalizerOptions tune the Normalizer.
type NormalizerOptions struct {
	// DropUnassignedTopics removes rows with a sentinel topic entirely instead
	// of keeping them for sentiment counts with no topic.
	DropUnassignedTopics bool
	// ReviewCandidates overrides DefaultReviewCandidates.
	ReviewCandidates []string
}

// Normalized is the output of Normalize.
type Normalized struct {
	Reviews      []*models.Review
	Dropped      int
	ReviewColumn string
	HasTopics    bool
}

// Locations returns the distinct normalized locations.
func (n *Normalized) Locations() *utils.StringSet {
	set := utils.NewStringSet()
	for _, r := range n.Reviews {
		set.Add(r.Location)
	}
	return set
}

// Normalizer turns a loosely structured input table into Reviews.
type Normalizer struct {
	logger *utils.Logger
	opts   NormalizerOptions
}

// NewNormalizer creates a Normalizer with the given logger and options.
func NewNormalizer(logger *utils.Logger, opts NormalizerOptions) *Normalizer {
	if len(opts.ReviewCandidates) == 0 {
		opts.ReviewCandidates = DefaultReviewCandidates
	}
	return &Normalizer{logger: logger, opts: opts}
}

// Normalize renames columns, validates the mandatory ones and converts every
// row into a Review. raw is not modified.
func (n *Normalizer) Normalize(raw *models.Table) (*Normalized, error) {
	t := raw.Clone()
	t.Rename(sourceColumns)

	var missing []string
	for _, col := range []string{ColLocation, ColSentiment} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("normalizer: %w: %s (the input needs at least 'Lugar' and 'SentLabel' or their equivalents)",
			ErrMissingColumns, strings.Join(missing, ", "))
	}

	locIdx := t.ColumnIndex(ColLocation)
	sentIdx := t.ColumnIndex(ColSentiment)
	scoreIdx := t.ColumnIndex(ColScore)
	topicIdx := t.ColumnIndex(ColTopic)

	textCol := ColReviewText
	if !t.HasColumn(textCol) {
		textCol, _ = DetectReviewColumn(t, n.opts.ReviewCandidates, canonicalColumns...)
	}
	textIdx := -1
	if textCol != "" {
		textIdx = t.ColumnIndex(textCol)
	}
	lemmaIdx := -1
	if col, ok := matchColumn(t, lemmaCandidates); ok {
		lemmaIdx = t.ColumnIndex(col)
	}

	out := &Normalized{
		Reviews:      make([]*models.Review, 0, t.Len()),
		ReviewColumn: textCol,
		HasTopics:    topicIdx >= 0,
	}
	emptyLocations, unassigned := 0, 0

	for _, row := range t.Rows {
		loc := CleanLocation(row[locIdx])
		if loc == "" {
			emptyLocations++
			continue
		}

		r := &models.Review{
			Location:  loc,
			Sentiment: row[sentIdx],
		}

		if topicIdx >= 0 {
			topic, assigned := cleanTopic(row[topicIdx])
			if !assigned {
				unassigned++
				if n.opts.DropUnassignedTopics {
					continue
				}
			} else {
				r.Topic = sql.NullString{String: topic, Valid: true}
			}
		}

		if scoreIdx >= 0 && row[scoreIdx].Valid {
			if f, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx].String), 64); err == nil {
				r.Score = sql.NullFloat64{Float64: f, Valid: true}
			}
		}
		if textIdx >= 0 {
			r.Text = row[textIdx]
		}
		if lemmaIdx >= 0 {
			r.Lemmas = row[lemmaIdx]
		}

		out.Reviews = append(out.Reviews, r)
	}

	out.Dropped = t.Len() - len(out.Reviews)
	if emptyLocations > 0 {
		n.logger.Warn("[normalizer] Dropped %d rows with an empty location", emptyLocations)
	}
	if unassigned > 0 {
		action := "kept without topic"
		if n.opts.DropUnassignedTopics {
			action = "dropped"
		}
		n.logger.Debug("[normalizer] %d rows have no assigned topic (%s)", unassigned, action)
	}
	if textCol == "" {
		n.logger.Warn("[normalizer] No review text column found, word cloud falls back to topics")
	}

	n.logger.Info("[normalizer] Normalized %d → %d reviews (dropped %d)",
		t.Len(), len(out.Reviews), out.Dropped)
	return out, nil
}

// CleanLocation strips the review-file prefix from a location identifier,
// turns underscores into spaces and trims surrounding whitespace.
func CleanLocation(c sql.NullString) string {
	if !c.Valid {
		return ""
	}
	s := norm.NFC.String(c.String)
	s = strings.TrimPrefix(s, locationPrefix)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.TrimSpace(s)
}

// cleanTopic trims a topic id and reports whether it names a real topic.
// Missing cells read as "nan", so they are unassigned too.
func cleanTopic(c sql.NullString) (string, bool) {
	s := "nan"
	if c.Valid {
		s = strings.TrimSpace(c.String)
	}
	if _, sentinel := unassignedTopics[s]; sentinel {
		return "", false
	}
	if m := integralFloat.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return s, true
}
