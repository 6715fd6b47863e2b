package owner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/sanitize"
)

const defaultOwnerCount = 4

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=owner
type Repository interface {
	ListOwners(ctx context.Context) ([]Owner, error)
	ReplaceOwners(ctx context.Context, owners []Owner) error

	ListAdvances(ctx context.Context, month ledger.YearMonth) ([]Advance, error)
	ReplaceAdvances(ctx context.Context, month ledger.YearMonth, advances []Advance) error
	DeleteAdvances(ctx context.Context, month ledger.YearMonth) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owners, seeding four equal partners the first time.
func (s *Service) List(ctx context.Context) ([]Owner, error) {
	owners, err := s.repo.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}

	if len(owners) > 0 {
		return owners, nil
	}

	owners = DefaultOwners()
	if err := s.repo.ReplaceOwners(ctx, owners); err != nil {
		return nil, fmt.Errorf("seeding owners: %w", err)
	}

	return owners, nil
}

// DefaultOwners returns four partners with equal shares.
func DefaultOwners() []Owner {
	share := hundred.Div(decimal.NewFromInt(defaultOwnerCount))
	owners := make([]Owner, 0, defaultOwnerCount)

	for i := 1; i <= defaultOwnerCount; i++ {
		owners = append(owners, Owner{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("Socio %d", i),
			Percentage: share,
		})
	}

	return owners
}

// Save replaces the owner list. Owners missing from the list are removed.
func (s *Service) Save(ctx context.Context, owners []Owner) ([]Owner, error) {
	cleaned := make([]Owner, 0, len(owners))

	for _, o := range owners {
		o.Name = sanitize.Text(o.Name)
		if o.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidOwner)
		}

		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}

		cleaned = append(cleaned, o)
	}

	if err := ValidateShares(cleaned); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceOwners(ctx, cleaned); err != nil {
		return nil, fmt.Errorf("saving owners: %w", err)
	}

	return cleaned, nil
}

// Distribution splits income among the current owners.
func (s *Service) Distribution(ctx context.Context, income decimal.Decimal) ([]Share, error) {
	owners, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	return Distribute(owners, income), nil
}

// Advances returns one advance per owner for month. Owners without a stored
// advance get a zero amount.
func (s *Service) Advances(ctx context.Context, month ledger.YearMonth) ([]Advance, error) {
	owners, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListAdvances(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("listing advances: %w", err)
	}

	byOwner := make(map[uuid.UUID]Advance, len(stored))
	for _, a := range stored {
		byOwner[a.OwnerID] = a
	}

	advances := make([]Advance, 0, len(owners))

	for _, o := range owners {
		a, ok := byOwner[o.ID]
		if !ok {
			a = Advance{OwnerID: o.ID, Amount: decimal.Zero}
		}

		advances = append(advances, a)
	}

	return advances, nil
}

// SaveAdvances archives the advances of month, replacing what was stored.
// Each owner takes at most one advance per month. An advance without a date
// is dated today.
func (s *Service) SaveAdvances(ctx context.Context, month ledger.YearMonth, advances []Advance) error {
	if _, err := ledger.ParseYearMonth(string(month)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAdvance, err)
	}

	owners, err := s.List(ctx)
	if err != nil {
		return err
	}

	known := make(map[uuid.UUID]struct{}, len(owners))
	for _, o := range owners {
		known[o.ID] = struct{}{}
	}

	cleaned := make([]Advance, 0, len(advances))
	seen := make(map[uuid.UUID]struct{}, len(advances))

	for _, a := range advances {
		if _, ok := known[a.OwnerID]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, a.OwnerID)
		}

		if _, dup := seen[a.OwnerID]; dup {
			return fmt.Errorf("%w: more than one advance for owner %s", ErrInvalidAdvance, a.OwnerID)
		}

		seen[a.OwnerID] = struct{}{}

		if a.Amount.IsNegative() {
			return fmt.Errorf("%w: amount must not be negative", ErrInvalidAdvance)
		}

		if a.Amount.IsZero() {
			continue
		}

		if a.Date.IsZero() {
			a.Date = time.Now()
		}

		a.Date = ledger.Day(a.Date)
		cleaned = append(cleaned, a)
	}

	if err := s.repo.ReplaceAdvances(ctx, month, cleaned); err != nil {
		return fmt.Errorf("saving advances: %w", err)
	}

	return nil
}

// ResetAdvances clears every advance of month.
func (s *Service) ResetAdvances(ctx context.Context, month ledger.YearMonth) error {
	if err := s.repo.DeleteAdvances(ctx, month); err != nil {
		return fmt.Errorf("resetting advances: %w", err)
	}

	return nil
}

// Settlement splits rentTotal among the owners net of the month's advances.
func (s *Service) Settlement(ctx context.Context, month ledger.YearMonth, rentTotal decimal.Decimal) (Settlement, error) {
	owners, err := s.List(ctx)
	if err != nil {
		return Settlement{}, err
	}

	advances, err := s.repo.ListAdvances(ctx, month)
	if err != nil {
		return Settlement{}, fmt.Errorf("listing advances: %w", err)
	}

	return Settlement{
		Month:     string(month),
		RentTotal: rentTotal,
		Lines:     Settle(owners, advances, rentTotal),
	}, nil
}
