package property

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

var (
	ErrNotFound        = errors.New("property not found")
	ErrInvalidProperty = errors.New("invalid property")
	ErrInvalidPayment  = errors.New("invalid payment")
	ErrInvalidValue    = errors.New("invalid rent value")
)

// Tenant is the person renting the property.
type Tenant struct {
	Name  string
	Email string
	Phone string
}

// ContractFile points at the signed contract document.
type ContractFile struct {
	Name string
	URL  string
}

// Property is a rented unit together with its contract terms, the history
// of rent/tax values and every payment received.
type Property struct {
	ID                     uuid.UUID
	Address                string
	Tenant                 Tenant
	Rent                   decimal.Decimal // Rent of the latest value record
	Tax                    decimal.Decimal // Tax of the latest value record
	ContractStartDate      time.Time
	ContractDurationMonths int // 0 for open-ended contracts
	UpdateFrequencyMonths  int
	Contract               *ContractFile
	ValueHistory           []ledger.ValueRecord
	Payments               []ledger.Payment
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}

// Statement returns the account of the property as of asOf.
func (p *Property) Statement(asOf time.Time) ledger.Statement {
	return ledger.BuildStatement(p.ID.String(), p.ContractStartDate, p.ValueHistory, p.Payments, asOf)
}

// ReviewDue reports whether the rent is due for its periodic update.
func (p *Property) ReviewDue(asOf time.Time) bool {
	return ledger.IsReviewDue(p.ContractStartDate, p.UpdateFrequencyMonths, p.ValueHistory, asOf)
}

// CurrentValue is the value record in effect on asOf.
func (p *Property) CurrentValue(asOf time.Time) (ledger.ValueRecord, bool) {
	return ledger.ValueAt(p.ValueHistory, asOf)
}

// Review is the rent review status of a property.
type Review struct {
	Due        bool
	LastUpdate time.Time
	NextReview time.Time
	Latest     ledger.ValueRecord
	Suggestion ledger.Suggestion
	Contract   *ledger.ContractStatus
}

// Review computes the review status and the inflation-adjusted suggestion.
func (p *Property) Review(asOf time.Time, table ledger.InflationTable) Review {
	r := Review{
		Due:        p.ReviewDue(asOf),
		LastUpdate: ledger.LastUpdate(p.ContractStartDate, p.ValueHistory),
		NextReview: ledger.NextReviewDate(p.ContractStartDate, p.UpdateFrequencyMonths, p.ValueHistory),
	}

	latest, ok := ledger.LatestValue(p.ValueHistory)
	if !ok {
		latest = ledger.ValueRecord{Date: p.ContractStartDate, Rent: p.Rent, Tax: p.Tax}
	}

	r.Latest = latest
	r.Suggestion = ledger.SuggestUpdatedValues(latest, p.UpdateFrequencyMonths, table)

	if status, ok := ledger.ContractStatusAt(p.ContractStartDate, p.ContractDurationMonths, asOf); ok {
		r.Contract = &status
	}

	return r
}

// MergeValueRecord returns history with v appended, or replacing the record
// that has the same date. The input slice is not modified.
func MergeValueRecord(history []ledger.ValueRecord, v ledger.ValueRecord) []ledger.ValueRecord {
	merged := slices.Clone(history)

	for i, h := range merged {
		if ledger.Day(h.Date).Equal(ledger.Day(v.Date)) {
			merged[i] = v
			return merged
		}
	}

	return append(merged, v)
}

// UpsertPayment returns payments with p replacing the payment that has the
// same ID, or appended when it is new.
func UpsertPayment(payments []ledger.Payment, p ledger.Payment) []ledger.Payment {
	merged := slices.Clone(payments)

	for i, existing := range merged {
		if existing.ID == p.ID {
			merged[i] = p
			return merged
		}
	}

	return append(merged, p)
}
