package services

import (
	"database/sql"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// resolverSampleSize bounds how many non-missing values the heuristic reads
// from each column.
const resolverSampleSize = 200

// DefaultReviewCandidates are the column names recognized as review text.
var DefaultReviewCandidates = []string{
	"review", "review_text", "review_lematizada", "review_lemmatized", "texto", "comentario",
}

// lemmaCandidates name columns holding lemmatized review text.
var lemmaCandidates = []string{"review_lematizada", "review_lemmatized"}

// DetectReviewColumn returns the column holding free-text reviews.
//
// The first column whose name matches a candidate case-insensitively wins.
// Otherwise every text-like column is scored as
// (mean length of its first 200 non-missing values) x (sampled / total rows)
// and the best positive score wins. Columns named in skip never qualify for
// the heuristic. ok is false when nothing qualifies.
func DetectReviewColumn(t *models.Table, candidates []string, skip ...string) (string, bool) {
	if col, ok := matchColumn(t, candidates); ok {
		return col, true
	}
	skipped := utils.NewStringSet(skip...)

	best, bestScore := "", 0.0
	rows := t.Len()
	if rows < 1 {
		rows = 1
	}
	for _, col := range t.Columns {
		if skipped.Contains(col) {
			continue
		}
		cells := t.Column(col)
		if !isTextColumn(cells) {
			continue
		}

		sampled, totalLen := 0, 0
		for _, c := range cells {
			if !c.Valid {
				continue
			}
			totalLen += utf8.RuneCountInString(c.String)
			sampled++
			if sampled == resolverSampleSize {
				break
			}
		}
		if sampled == 0 {
			continue
		}

		avgLen := float64(totalLen) / float64(sampled)
		score := avgLen * (float64(sampled) / float64(rows))
		if score > bestScore {
			best, bestScore = col, score
		}
	}
	return best, best != ""
}

// matchColumn finds the first column, in table order, whose name equals one of
// the candidates under Unicode case folding.
func matchColumn(t *models.Table, candidates []string) (string, bool) {
	fold := cases.Fold()
	wanted := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		wanted[fold.String(c)] = struct{}{}
	}
	for _, col := range t.Columns {
		if _, ok := wanted[fold.String(col)]; ok {
			return col, true
		}
	}
	return "", false
}

// isTextColumn reports whether any present value is non-numeric. Columns that
// are entirely missing or entirely numeric are not text.
func isTextColumn(cells []sql.NullString) bool {
	for _, c := range cells {
		if !c.Valid {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(c.String), 64); err != nil {
			return true
		}
	}
	return false
}
