package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"reviews-dashboard/models"
)

// XLSXSource reads reviews from a sheet of an Excel workbook.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates a source for the workbook at path. An empty sheet
// selects the first sheet.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Load reads the sheet; row 1 is the header.
func (s *XLSXSource) Load(ctx context.Context) (*models.Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return models.NewTable(), nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return models.NewTable(), nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := models.NewTable(header...)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		table.AppendStrings(row...)
	}
	return table, nil
}

// Close is a no-op; the workbook is closed after Load.
func (s *XLSXSource) Close() error { return nil }
