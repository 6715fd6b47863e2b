package property

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/sanitize"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=property
type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	ListProperties(ctx context.Context) ([]*Property, error)
	UpdateProperty(ctx context.Context, p *Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error

	SavePayment(ctx context.Context, propertyID uuid.UUID, payment ledger.Payment) error
	SaveValueRecord(ctx context.Context, propertyID uuid.UUID, v ledger.ValueRecord) error
	UpdateContract(ctx context.Context, propertyID uuid.UUID, contract ContractFile) error
}

// InflationSource supplies the monthly inflation table used by rent reviews.
type InflationSource interface {
	Table(ctx context.Context) (ledger.InflationTable, error)
}

type Service struct {
	repo      Repository
	inflation InflationSource
}

func NewService(repo Repository, inflation InflationSource) *Service {
	return &Service{repo: repo, inflation: inflation}
}

type CreateParams struct {
	Address                string
	Tenant                 Tenant
	Rent                   decimal.Decimal
	Tax                    decimal.Decimal
	ContractStartDate      time.Time
	ContractDurationMonths int
	UpdateFrequencyMonths  int
	Contract               *ContractFile
}

// Create stores a new property and seeds its value history with the
// contract's starting rent and tax.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Property, error) {
	p := &Property{
		Address:                sanitize.Text(params.Address),
		Tenant:                 sanitizeTenant(params.Tenant),
		Rent:                   params.Rent,
		Tax:                    params.Tax,
		ContractStartDate:      ledger.Day(params.ContractStartDate),
		ContractDurationMonths: params.ContractDurationMonths,
		UpdateFrequencyMonths:  params.UpdateFrequencyMonths,
		Contract:               params.Contract,
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	if p.Rent.IsNegative() || p.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: rent and tax must not be negative", ErrInvalidProperty)
	}

	p.ValueHistory = []ledger.ValueRecord{{Date: p.ContractStartDate, Rent: p.Rent, Tax: p.Tax}}
	p.Payments = []ledger.Payment{}

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.GetProperty(ctx, id)
}

// List returns every property ordered by address.
func (s *Service) List(ctx context.Context) ([]*Property, error) {
	props, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(props, func(a, b *Property) int {
		return cmp.Compare(strings.ToLower(a.Address), strings.ToLower(b.Address))
	})

	return props, nil
}

// Update saves the identity and contract fields of p. Value history and
// payments are changed through ApplyRentUpdate and SavePayment.
func (s *Service) Update(ctx context.Context, p *Property) error {
	p.Address = sanitize.Text(p.Address)
	p.Tenant = sanitizeTenant(p.Tenant)
	p.ContractStartDate = ledger.Day(p.ContractStartDate)

	if err := validate(p); err != nil {
		return err
	}

	return s.repo.UpdateProperty(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProperty(ctx, id)
}

type PaymentParams struct {
	ID                 *uuid.UUID
	Date               time.Time
	Amount             decimal.Decimal
	Notes              string
	AllocatedChargeIDs []string
}

// SavePayment records a new payment, or replaces the one with params.ID.
// created reports whether no payment with that ID existed before.
func (s *Service) SavePayment(ctx context.Context, propertyID uuid.UUID, params PaymentParams) (payment ledger.Payment, created bool, err error) {
	if params.Date.IsZero() {
		return ledger.Payment{}, false, fmt.Errorf("%w: date is required", ErrInvalidPayment)
	}

	if !params.Amount.IsPositive() {
		return ledger.Payment{}, false, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidPayment)
	}

	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return ledger.Payment{}, false, err
	}

	payment = ledger.Payment{
		ID:                 uuid.New(),
		Date:               ledger.Day(params.Date),
		Amount:             params.Amount,
		Notes:              sanitize.Text(params.Notes),
		AllocatedChargeIDs: dedupe(params.AllocatedChargeIDs),
	}
	if params.ID != nil {
		payment.ID = *params.ID
	}

	created = !slices.ContainsFunc(p.Payments, func(existing ledger.Payment) bool {
		return existing.ID == payment.ID
	})

	if err := s.repo.SavePayment(ctx, propertyID, payment); err != nil {
		return ledger.Payment{}, false, fmt.Errorf("saving payment: %w", err)
	}

	return payment, created, nil
}

// ApplyRentUpdate appends v to the value history, overwriting a record with
// the same date, and makes the latest record the property's current rent.
func (s *Service) ApplyRentUpdate(ctx context.Context, propertyID uuid.UUID, v ledger.ValueRecord) (*Property, error) {
	if v.Date.IsZero() {
		return nil, fmt.Errorf("%w: effective date is required", ErrInvalidValue)
	}

	if v.Rent.IsNegative() || v.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: rent and tax must not be negative", ErrInvalidValue)
	}

	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	v.Date = ledger.Day(v.Date)

	if err := s.repo.SaveValueRecord(ctx, propertyID, v); err != nil {
		return nil, fmt.Errorf("saving value record: %w", err)
	}

	p.ValueHistory = ledger.SortHistory(MergeValueRecord(p.ValueHistory, v))

	latest := p.ValueHistory[len(p.ValueHistory)-1]
	p.Rent = latest.Rent
	p.Tax = latest.Tax

	return p, nil
}

func (s *Service) AttachContract(ctx context.Context, propertyID uuid.UUID, contract ContractFile) error {
	contract.Name = sanitize.Text(contract.Name)
	if strings.TrimSpace(contract.URL) == "" {
		return fmt.Errorf("%w: contract url is required", ErrInvalidProperty)
	}

	return s.repo.UpdateContract(ctx, propertyID, contract)
}

// Statement returns the property together with its account as of asOf.
func (s *Service) Statement(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (*Property, ledger.Statement, error) {
	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, ledger.Statement{}, err
	}

	return p, p.Statement(asOf), nil
}

// Review returns the rent review status of a property with a suggested
// inflation-adjusted rent.
func (s *Service) Review(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (Review, error) {
	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return Review{}, err
	}

	table, err := s.inflation.Table(ctx)
	if err != nil {
		return Review{}, fmt.Errorf("loading inflation table: %w", err)
	}

	return p.Review(asOf, table), nil
}

// DueForReview lists the properties whose rent review is due on asOf.
func (s *Service) DueForReview(ctx context.Context, asOf time.Time) ([]*Property, error) {
	props, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var due []*Property

	for _, p := range props {
		if p.ReviewDue(asOf) {
			due = append(due, p)
		}
	}

	return due, nil
}

func validate(p *Property) error {
	if p.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidProperty)
	}

	if p.ContractStartDate.IsZero() {
		return fmt.Errorf("%w: contract start date is required", ErrInvalidProperty)
	}

	if p.UpdateFrequencyMonths < 0 || p.ContractDurationMonths < 0 {
		return fmt.Errorf("%w: month counts must not be negative", ErrInvalidProperty)
	}

	return nil
}

func sanitizeTenant(t Tenant) Tenant {
	return Tenant{
		Name:  sanitize.Text(t.Name),
		Email: sanitize.Text(t.Email),
		Phone: sanitize.Text(t.Phone),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
