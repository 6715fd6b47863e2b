package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, percentage FROM owners ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	defer rows.Close()

	var owners []owner.Owner

	for rows.Next() {
		var o owner.Owner
		if err := rows.Scan(&o.ID, &o.Name, &o.Percentage); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}

		owners = append(owners, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owner rows: %w", err)
	}

	return owners, nil
}

// ReplaceOwners upserts owners and removes any owner not in the list, along
// with their archived advances.
func (s *Store) ReplaceOwners(ctx context.Context, owners []owner.Owner) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	ids := make([]string, 0, len(owners))

	for _, o := range owners {
		query := `
			INSERT INTO owners (id, name, percentage)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, percentage = EXCLUDED.percentage
		`
		if _, err := dbTx.ExecContext(ctx, query, o.ID, o.Name, o.Percentage); err != nil {
			return fmt.Errorf("upserting owner %s: %w", o.Name, err)
		}

		ids = append(ids, o.ID.String())
	}

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM owners WHERE NOT (id::text = ANY(string_to_array($1, ',')))`,
		strings.Join(ids, ","),
	); err != nil {
		return fmt.Errorf("removing owners: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListAdvances(ctx context.Context, month ledger.YearMonth) ([]owner.Advance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, amount, date FROM owner_advances WHERE month = $1 ORDER BY date ASC`,
		string(month),
	)
	if err != nil {
		return nil, fmt.Errorf("listing advances: %w", err)
	}
	defer rows.Close()

	var advances []owner.Advance

	for rows.Next() {
		var a owner.Advance
		if err := rows.Scan(&a.OwnerID, &a.Amount, &a.Date); err != nil {
			return nil, fmt.Errorf("scanning advance: %w", err)
		}

		a.Date = ledger.Day(a.Date)
		advances = append(advances, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating advance rows: %w", err)
	}

	return advances, nil
}

// ReplaceAdvances overwrites the archive of month with advances.
func (s *Store) ReplaceAdvances(ctx context.Context, month ledger.YearMonth, advances []owner.Advance) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM owner_advances WHERE month = $1`, string(month)); err != nil {
		return fmt.Errorf("clearing advances: %w", err)
	}

	query := `INSERT INTO owner_advances (owner_id, month, amount, date) VALUES ($1, $2, $3, $4)`

	for _, a := range advances {
		if _, err := dbTx.ExecContext(ctx, query, a.OwnerID, string(month), a.Amount, a.Date); err != nil {
			return fmt.Errorf("inserting advance: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteAdvances(ctx context.Context, month ledger.YearMonth) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM owner_advances WHERE month = $1`, string(month)); err != nil {
		return fmt.Errorf("deleting advances: %w", err)
	}

	return nil
}
