package dashboard

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=dashboard
type PropertyLister interface {
	List(ctx context.Context) ([]*property.Property, error)
}

type OwnerLister interface {
	List(ctx context.Context) ([]owner.Owner, error)
}

type Service struct {
	properties PropertyLister
	owners     OwnerLister
}

func NewService(properties PropertyLister, owners OwnerLister) *Service {
	return &Service{properties: properties, owners: owners}
}

// Summary aggregates income, debt and pending reviews across all properties.
func (s *Service) Summary(ctx context.Context, month ledger.YearMonth, asOf time.Time) (Summary, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing properties: %w", err)
	}

	owners, err := s.owners.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing owners: %w", err)
	}

	income := make(map[ledger.YearMonth]decimal.Decimal)
	sum := Summary{
		Month:         month,
		AsOf:          ledger.Day(asOf),
		PropertyCount: len(props),
		TotalDebt:     decimal.Zero,
		TotalAssets:   decimal.Zero,
	}

	for _, p := range props {
		for _, pay := range p.Payments {
			m := ledger.MonthOf(pay.Date)
			income[m] = income[m].Add(pay.Amount)
		}

		st := p.Statement(asOf)
		sum.TotalDebt = sum.TotalDebt.Add(st.Debt)

		if v, ok := p.CurrentValue(asOf); ok {
			sum.TotalAssets = sum.TotalAssets.Add(v.Rent)
		}

		if p.ReviewDue(asOf) {
			sum.DueReviews = append(sum.DueReviews, DueReview{
				PropertyID: p.ID,
				Address:    p.Address,
				LastUpdate: ledger.LastUpdate(p.ContractStartDate, p.ValueHistory),
				NextReview: ledger.NextReviewDate(p.ContractStartDate, p.UpdateFrequencyMonths, p.ValueHistory),
			})
		}
	}

	for _, m := range slices.Sorted(maps.Keys(income)) {
		sum.IncomeByMonth = append(sum.IncomeByMonth, MonthlyIncome{Month: m, Amount: income[m]})
	}

	sum.MonthIncome = income[month]
	sum.Distribution = owner.Distribute(owners, sum.MonthIncome)

	return sum, nil
}

// MonthlyRent is the total rent, without tax, charged for month across all
// properties whose contract had started by then.
func (s *Service) MonthlyRent(ctx context.Context, month ledger.YearMonth) (decimal.Decimal, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing properties: %w", err)
	}

	total := decimal.Zero

	for _, p := range props {
		if p.ContractStartDate.IsZero() || ledger.MonthOf(p.ContractStartDate) > month {
			continue
		}

		if v, ok := p.CurrentValue(month.Start()); ok {
			total = total.Add(v.Rent)
		}
	}

	return total, nil
}
