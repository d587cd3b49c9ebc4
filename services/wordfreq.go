package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"reviews-dashboard/models"
)

// minWordRunes drops very short tokens from the word cloud.
const minWordRunes = 3

// WordFrequencies counts the words of the reviews' lemmatized text, falling
// back to the raw review text and then to the topic ids when no text is
// present. At most limit words are returned, most frequent first.
func WordFrequencies(reviews []*models.Review, limit int) []models.WordCount {
	counts := countWords(reviews, func(r *models.Review) (string, bool) {
		return r.Lemmas.String, r.Lemmas.Valid
	})
	if len(counts) == 0 {
		counts = countWords(reviews, func(r *models.Review) (string, bool) {
			return r.Text.String, r.Text.Valid
		})
	}
	if len(counts) == 0 {
		counts = make(map[string]int)
		for _, r := range reviews {
			if r.Topic.Valid {
				counts[r.Topic.String]++
			}
		}
	}

	out := make([]models.WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, models.WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func countWords(reviews []*models.Review, text func(*models.Review) (string, bool)) map[string]int {
	counts := make(map[string]int)
	for _, r := range reviews {
		s, ok := text(r)
		if !ok {
			continue
		}
		for _, w := range tokenize(s) {
			counts[w]++
		}
	}
	return counts
}

// tokenize lower-cases s and splits it on anything that is not a letter,
// dropping stopwords, numbers and short tokens.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minWordRunes {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
