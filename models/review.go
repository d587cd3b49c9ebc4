package models

import "database/sql"

// Review is one normalized review row.
type Review struct {
	Location  string
	Sentiment sql.NullString
	Score     sql.NullFloat64
	Topic     sql.NullString
	Text      sql.NullString
	Lemmas    sql.NullString
}

// Recognized sentiment labels.
const (
	LabelPositive = "POS"
	LabelNegative = "NEG"
	LabelNeutral  = "NEU"
)
