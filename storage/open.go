package storage

import (
	"context"
	"fmt"
	"time"

	"reviews-dashboard/config"
	"reviews-dashboard/utils"
)

// Open returns the review source selected by the configuration.
func Open(ctx context.Context, cfg *config.Config, logger *utils.Logger) (ReviewSource, error) {
	switch kind := cfg.SourceKind(); kind {
	case "csv":
		logger.Info("[storage] Reading reviews from CSV %s", cfg.ReviewsPath)
		return NewCSVSource(cfg.ReviewsPath, cfg.ReviewsDelimiter), nil
	case "xlsx":
		logger.Info("[storage] Reading reviews from workbook %s", cfg.ReviewsPath)
		return NewXLSXSource(cfg.ReviewsPath, cfg.ReviewsSheet), nil
	case "postgres":
		logger.Info("[storage] Reading reviews from PostgreSQL table %s", cfg.ReviewsTable)
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		return OpenPostgresSource(ctx, cfg.DSN(), cfg.ReviewsTable, retry)
	default:
		return nil, fmt.Errorf("storage: unknown review source %q", kind)
	}
}
