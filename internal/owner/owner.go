package owner

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("owner not found")
	ErrInvalidOwner   = errors.New("invalid owner")
	ErrInvalidShares  = errors.New("owner percentages must add up to 100")
	ErrInvalidAdvance = errors.New("invalid advance")
)

var hundred = decimal.NewFromInt(100)

// Owner is a partner entitled to a percentage of the rental income.
type Owner struct {
	ID         uuid.UUID
	Name       string
	Percentage decimal.Decimal
}

// Advance is money paid to an owner ahead of a month's settlement.
type Advance struct {
	OwnerID uuid.UUID
	Amount  decimal.Decimal
	Date    time.Time
}

// Share is an owner's part of an income amount.
type Share struct {
	Owner  Owner
	Amount decimal.Decimal
}

// Distribute splits income among owners by percentage, rounded to cents.
func Distribute(owners []Owner, income decimal.Decimal) []Share {
	shares := make([]Share, 0, len(owners))

	for _, o := range owners {
		shares = append(shares, Share{
			Owner:  o,
			Amount: income.Mul(o.Percentage).Div(hundred).Round(2),
		})
	}

	return shares
}

// SettlementLine is what a single owner is still owed for a month.
type SettlementLine struct {
	Owner   Owner
	Share   decimal.Decimal
	Advance decimal.Decimal
	Balance decimal.Decimal
}

// Settlement is the month's rent split among owners net of their advances.
type Settlement struct {
	Month     string
	RentTotal decimal.Decimal
	Lines     []SettlementLine
}

// Settle computes each owner's balance as share minus the advances taken.
// A negative balance means the owner was advanced more than their share.
func Settle(owners []Owner, advances []Advance, rentTotal decimal.Decimal) []SettlementLine {
	advanced := make(map[uuid.UUID]decimal.Decimal, len(advances))
	for _, a := range advances {
		advanced[a.OwnerID] = advanced[a.OwnerID].Add(a.Amount)
	}

	lines := make([]SettlementLine, 0, len(owners))

	for _, share := range Distribute(owners, rentTotal) {
		adv := advanced[share.Owner.ID]

		lines = append(lines, SettlementLine{
			Owner:   share.Owner,
			Share:   share.Amount,
			Advance: adv,
			Balance: share.Amount.Sub(adv),
		})
	}

	return lines
}

// ValidateShares checks that percentages are non-negative and total exactly 100.
func ValidateShares(owners []Owner) error {
	if len(owners) == 0 {
		return ErrInvalidShares
	}

	total := decimal.Zero

	for _, o := range owners {
		if o.Percentage.IsNegative() {
			return ErrInvalidShares
		}

		total = total.Add(o.Percentage)
	}

	if !total.Equal(hundred) {
		return ErrInvalidShares
	}

	return nil
}
