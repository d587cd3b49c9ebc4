package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"reviews-dashboard/models"
)

const utf8BOM = "\ufeff"

// CSVSource reads reviews from a delimited text file.
type CSVSource struct {
	path  string
	comma rune
}

// NewCSVSource creates a source for the file at path using comma as delimiter.
func NewCSVSource(path string, comma rune) *CSVSource {
	if comma == 0 {
		comma = ','
	}
	return &CSVSource{path: path, comma: comma}
}

// Load reads the whole file into memory. The first record is the header.
func (s *CSVSource) Load(ctx context.Context) (*models.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	return ReadCSV(ctx, f, s.comma)
}

// Close is a no-op; the file is closed after Load.
func (s *CSVSource) Close() error { return nil }

// ReadCSV parses delimited text from r into a table.
func ReadCSV(ctx context.Context, r io.Reader, comma rune) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := models.NewTable(header...)
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}
		table.AppendStrings(record...)
	}
	return table, nil
}

