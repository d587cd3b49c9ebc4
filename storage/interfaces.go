package storage

import (
	"context"

	"reviews-dashboard/models"
)

// ReviewSource is the interface any review input backend must satisfy.
type ReviewSource interface {
	Load(ctx context.Context) (*models.Table, error)
	Close() error
}

// AggregateWriter is the interface for exporting computed location aggregates.
type AggregateWriter interface {
	WriteAggregates(aggs []models.LocationAggregate) error
	Close() error
}
