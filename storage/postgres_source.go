package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// PostgresSource reads reviews from a PostgreSQL table.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// OpenPostgresSource connects to PostgreSQL, waiting for the server with
// back-off, and returns a source reading from table.
func OpenPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return NewPostgresSource(db, table), nil
}

// NewPostgresSource wraps an existing connection pool.
func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Load selects every row of the table. Column values of any SQL type are
// read as text; NULL and the usual NA tokens become missing cells.
func (p *PostgresSource) Load(ctx context.Context) (*models.Table, error) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(p.table)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", p.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("postgres: columns: %w", err)
	}

	table := models.NewTable(columns...)
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		for i, v := range values {
			if v.Valid {
				values[i] = models.Cell(v.String)
			}
		}
		table.AppendRow(values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return table, nil
}

// Close releases the connection pool.
func (p *PostgresSource) Close() error {
	return p.db.Close()
}
