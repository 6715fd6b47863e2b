package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListRates(ctx context.Context) ([]inflation.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, rate, updated_at FROM inflation_rates ORDER BY month ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing inflation rates: %w", err)
	}
	defer rows.Close()

	var records []inflation.Record

	for rows.Next() {
		var r inflation.Record

		var month string

		if err := rows.Scan(&month, &r.Rate, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inflation rate: %w", err)
		}

		r.Month = ledger.YearMonth(strings.TrimSpace(month))
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inflation rows: %w", err)
	}

	return records, nil
}

// UpsertRates writes all records in a single transaction.
func (s *Store) UpsertRates(ctx context.Context, records []inflation.Record) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO inflation_rates (month, rate, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (month) DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
	`

	for _, r := range records {
		if _, err := dbTx.ExecContext(ctx, query, string(r.Month), r.Rate); err != nil {
			return fmt.Errorf("upserting rate for %s: %w", r.Month, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteRate(ctx context.Context, month ledger.YearMonth) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inflation_rates WHERE month = $1`, string(month))
	if err != nil {
		return fmt.Errorf("deleting inflation rate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return inflation.ErrNotFound
	}

	return nil
}
