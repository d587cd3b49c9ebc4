package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/xuri/excelize/v2"

	"reviews-dashboard/config"
	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

func TestReadCSVHeaderAndMissingValues(t *testing.T) {
	input := "\ufeffLugar,SentLabel,Topic\n" +
		"reseñas_MuseoX,POS,3\n" +
		"\n" +
		"reseñas_MuseoY,NEG,\n" +
		"reseñas_MuseoZ,nan\n"

	table, err := ReadCSV(context.Background(), strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if got := strings.Join(table.Columns, "|"); got != "Lugar|SentLabel|Topic" {
		t.Errorf("columns: got %q", got)
	}
	if table.Len() != 3 {
		t.Fatalf("rows: got %d, want 3 (blank line skipped)", table.Len())
	}

	topics := table.Column("Topic")
	if !topics[0].Valid || topics[0].String != "3" {
		t.Errorf("topic[0]: got %+v", topics[0])
	}
	if topics[1].Valid {
		t.Errorf("empty topic should be missing, got %+v", topics[1])
	}
	if topics[2].Valid {
		t.Errorf("short row should be padded with missing, got %+v", topics[2])
	}
	if labels := table.Column("SentLabel"); labels[2].Valid {
		t.Errorf("nan label should be missing, got %+v", labels[2])
	}
}

func TestReadCSVKeepsAllMissingRows(t *testing.T) {
	input := "Lugar,SentLabel,Topic\n" +
		"reseñas_MuseoX,POS,3\n" +
		",,\n" +
		"\n" +
		"reseñas_MuseoY,NEG,1\n"

	table, err := ReadCSV(context.Background(), strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("rows: got %d, want 3 (all-missing row kept, empty line skipped)", table.Len())
	}
	for i, c := range table.Rows[1] {
		if c.Valid {
			t.Errorf("row 1 col %d: got %+v, want missing", i, c)
		}
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	table, err := ReadCSV(context.Background(), strings.NewReader(""), ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if table.Len() != 0 || len(table.Columns) != 0 {
		t.Errorf("expected empty table, got %+v", table)
	}
}

func TestCSVSourceSemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte("Lugar;SentLabel\nZocalo;POS\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := NewCSVSource(path, ';').Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 1 || table.Rows[0][0].String != "Zocalo" {
		t.Errorf("unexpected table: %+v", table)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), ',').Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestXLSXSourceLoad(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	rows := [][]any{
		{"Lugar", "SentLabel", "Topic"},
		{"reseñas_Palacio_de_Bellas_Artes", "POS", 3},
		{"reseñas_Six_Flags", "NEG"},
	}
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("failed to set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "reviews.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	table, err := NewXLSXSource(path, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("rows: got %d, want 2", table.Len())
	}
	topics := table.Column("Topic")
	if topics[0].String != "3" || topics[1].Valid {
		t.Errorf("topics: got %+v", topics)
	}
}

func TestPostgresSourceLoad(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews"`)).
		WillReturnRows(sqlmock.NewRows([]string{"Lugar", "SentLabel", "Topic"}).
			AddRow("reseñas_Zocalo", "POS", int64(34)).
			AddRow("reseñas_Zocalo", nil, "None"))
	mock.ExpectClose()

	src := NewPostgresSource(db, "reviews")
	table, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("rows: got %d, want 2", table.Len())
	}
	if got := table.Rows[0][2]; !got.Valid || got.String != "34" {
		t.Errorf("integer topic should read as text, got %+v", got)
	}
	if table.Rows[1][1].Valid {
		t.Error("NULL label should be missing")
	}
	if table.Rows[1][2].Valid {
		t.Error("None topic should be missing")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCSVWriterExportsAggregates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "aggregates.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	aggs := []models.LocationAggregate{
		{Location: "MuseoX", Mentions: 3, Positive: 2, Negative: 1, PositiveRatio: 2.0 / 3.0},
	}
	if err := w.WriteAggregates(aggs); err != nil {
		t.Fatalf("WriteAggregates: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "lugar,mentions,pos,neg,neu,pos_ratio\nMuseoX,3,2,1,0,0.6667\n"
	if string(data) != want {
		t.Errorf("file contents:\n%s\nwant:\n%s", data, want)
	}
}

func TestOpenSelectsSource(t *testing.T) {
	logger := utils.NewLoggerTo(os.Stderr, utils.LevelError)

	src, err := Open(context.Background(), &config.Config{ReviewsPath: "r.xlsx"}, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := src.(*XLSXSource); !ok {
		t.Errorf("expected XLSXSource, got %T", src)
	}

	if _, err := Open(context.Background(), &config.Config{ReviewsSource: "parquet"}, logger); err == nil {
		t.Error("expected error for unknown source")
	}
}
