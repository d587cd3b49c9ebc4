package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"reviews-dashboard/models"
)

// CSVWriter exports location aggregates to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lugar", "mentions", "pos", "neg", "neu", "pos_ratio"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteAggregates writes one row per location.
func (c *CSVWriter) WriteAggregates(aggs []models.LocationAggregate) error {
	for _, a := range aggs {
		row := []string{
			a.Location,
			strconv.Itoa(a.Mentions),
			strconv.Itoa(a.Positive),
			strconv.Itoa(a.Negative),
			strconv.Itoa(a.Neutral),
			strconv.FormatFloat(a.PositiveRatio, 'f', 4, 64),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
