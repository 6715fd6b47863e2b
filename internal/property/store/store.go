package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanProperty reads a property row without its history or payments.
// Expected column order: id, address, tenant_name, tenant_email, tenant_phone, rent, tax,
// contract_start_date, contract_duration_months, update_frequency_months, contract_name,
// contract_url, created_at, updated_at
func scanProperty(s scanner) (*property.Property, error) {
	var p property.Property

	var contractName, contractURL sql.NullString

	if err := s.Scan(
		&p.ID, &p.Address, &p.Tenant.Name, &p.Tenant.Email, &p.Tenant.Phone, &p.Rent, &p.Tax,
		&p.ContractStartDate, &p.ContractDurationMonths, &p.UpdateFrequencyMonths,
		&contractName, &contractURL,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.ContractStartDate = ledger.Day(p.ContractStartDate)

	if contractURL.Valid {
		p.Contract = &property.ContractFile{Name: contractName.String, URL: contractURL.String}
	}

	return &p, nil
}

const selectPropertyColumns = `
	id, address, tenant_name, tenant_email, tenant_phone, rent, tax,
	contract_start_date, contract_duration_months, update_frequency_months,
	contract_name, contract_url, created_at, updated_at
`

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO properties (address, tenant_name, tenant_email, tenant_phone, rent, tax,
			contract_start_date, contract_duration_months, update_frequency_months,
			contract_name, contract_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`

	var contractName, contractURL *string
	if p.Contract != nil {
		contractName, contractURL = &p.Contract.Name, &p.Contract.URL
	}

	err = dbTx.QueryRowContext(ctx, query,
		p.Address,
		p.Tenant.Name,
		p.Tenant.Email,
		p.Tenant.Phone,
		p.Rent,
		p.Tax,
		p.ContractStartDate,
		p.ContractDurationMonths,
		p.UpdateFrequencyMonths,
		contractName,
		contractURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	for _, v := range p.ValueHistory {
		if err := upsertValueRecord(ctx, dbTx, p.ID, v); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, property.ErrNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	byID := map[uuid.UUID]*property.Property{p.ID: p}
	if err := s.loadDetails(ctx, byID, &id); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties ORDER BY address ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var props []*property.Property

	byID := make(map[uuid.UUID]*property.Property)

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}

		props = append(props, p)
		byID[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}

	if len(props) == 0 {
		return props, nil
	}

	if err := s.loadDetails(ctx, byID, nil); err != nil {
		return nil, err
	}

	return props, nil
}

// loadDetails fills the value history and payments of the properties in
// byID. A nil only loads them for every property.
func (s *Store) loadDetails(ctx context.Context, byID map[uuid.UUID]*property.Property, only *uuid.UUID) error {
	for _, p := range byID {
		p.ValueHistory = []ledger.ValueRecord{}
		p.Payments = []ledger.Payment{}
	}

	historyRows, err := s.db.QueryContext(ctx, `
		SELECT property_id, date, rent, tax FROM value_history
		WHERE $1::uuid IS NULL OR property_id = $1
		ORDER BY date ASC`, only)
	if err != nil {
		return fmt.Errorf("loading value history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var propertyID uuid.UUID

		var v ledger.ValueRecord

		if err := historyRows.Scan(&propertyID, &v.Date, &v.Rent, &v.Tax); err != nil {
			return fmt.Errorf("scanning value record: %w", err)
		}

		if p, ok := byID[propertyID]; ok {
			v.Date = ledger.Day(v.Date)
			p.ValueHistory = append(p.ValueHistory, v)
		}
	}

	if err := historyRows.Err(); err != nil {
		return fmt.Errorf("iterating value history rows: %w", err)
	}

	paymentRows, err := s.db.QueryContext(ctx,
		`SELECT p.property_id, p.id, p.date, p.amount, p.notes,
			COALESCE(string_agg(a.charge_id, ',' ORDER BY a.position), '')
		FROM payments p
		LEFT JOIN payment_allocations a ON a.payment_id = p.id
		WHERE $1::uuid IS NULL OR p.property_id = $1
		GROUP BY p.id
		ORDER BY p.date ASC, p.id ASC`, only)
	if err != nil {
		return fmt.Errorf("loading payments: %w", err)
	}
	defer paymentRows.Close()

	for paymentRows.Next() {
		var propertyID uuid.UUID

		var pay ledger.Payment

		var allocated string

		if err := paymentRows.Scan(&propertyID, &pay.ID, &pay.Date, &pay.Amount, &pay.Notes, &allocated); err != nil {
			return fmt.Errorf("scanning payment: %w", err)
		}

		pay.Date = ledger.Day(pay.Date)
		pay.AllocatedChargeIDs = splitIDs(allocated)

		if p, ok := byID[propertyID]; ok {
			p.Payments = append(p.Payments, pay)
		}
	}

	if err := paymentRows.Err(); err != nil {
		return fmt.Errorf("iterating payment rows: %w", err)
	}

	return nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	query := `
		UPDATE properties
		SET address = $1, tenant_name = $2, tenant_email = $3, tenant_phone = $4,
			contract_start_date = $5, contract_duration_months = $6, update_frequency_months = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		p.Address,
		p.Tenant.Name,
		p.Tenant.Email,
		p.Tenant.Phone,
		p.ContractStartDate,
		p.ContractDurationMonths,
		p.UpdateFrequencyMonths,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	return requireRow(res)
}

// SavePayment inserts the payment or replaces the one with the same ID,
// rewriting its allocations.
func (s *Store) SavePayment(ctx context.Context, propertyID uuid.UUID, payment ledger.Payment) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO payments (id, property_id, date, amount, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET date = EXCLUDED.date, amount = EXCLUDED.amount, notes = EXCLUDED.notes
		WHERE payments.property_id = EXCLUDED.property_id
	`

	res, err := dbTx.ExecContext(ctx, query, payment.ID, propertyID, payment.Date, payment.Amount, payment.Notes)
	if err != nil {
		return fmt.Errorf("upserting payment: %w", err)
	}

	if err := requireRow(res); err != nil {
		return err
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM payment_allocations WHERE payment_id = $1`, payment.ID); err != nil {
		return fmt.Errorf("clearing allocations: %w", err)
	}

	for i, chargeID := range payment.AllocatedChargeIDs {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO payment_allocations (payment_id, charge_id, position) VALUES ($1, $2, $3)`,
			payment.ID, chargeID, i,
		); err != nil {
			return fmt.Errorf("allocating charge %s: %w", chargeID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SaveValueRecord upserts a value record and syncs the property's current
// rent and tax with its latest record.
func (s *Store) SaveValueRecord(ctx context.Context, propertyID uuid.UUID, v ledger.ValueRecord) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := upsertValueRecord(ctx, dbTx, propertyID, v); err != nil {
		return err
	}

	syncQuery := `
		UPDATE properties p
		SET rent = h.rent, tax = h.tax, updated_at = NOW()
		FROM (
			SELECT rent, tax FROM value_history
			WHERE property_id = $1
			ORDER BY date DESC
			LIMIT 1
		) h
		WHERE p.id = $1
	`
	if _, err := dbTx.ExecContext(ctx, syncQuery, propertyID); err != nil {
		return fmt.Errorf("syncing current rent: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateContract(ctx context.Context, propertyID uuid.UUID, contract property.ContractFile) error {
	query := `
		UPDATE properties
		SET contract_name = $1, contract_url = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, contract.Name, contract.URL, propertyID)
	if err != nil {
		return fmt.Errorf("updating contract: %w", err)
	}

	return requireRow(res)
}

func upsertValueRecord(ctx context.Context, dbTx *sql.Tx, propertyID uuid.UUID, v ledger.ValueRecord) error {
	query := `
		INSERT INTO value_history (property_id, date, rent, tax)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (property_id, date) DO UPDATE SET rent = EXCLUDED.rent, tax = EXCLUDED.tax
	`

	if _, err := dbTx.ExecContext(ctx, query, propertyID, ledger.Day(v.Date), v.Rent, v.Tax); err != nil {
		return fmt.Errorf("upserting value record: %w", err)
	}

	return nil
}

func splitIDs(joined string) []string {
	if joined == "" {
		return nil
	}

	return strings.Split(joined, ",")
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return property.ErrNotFound
	}

	return nil
}
