package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const defaultPaymentDetail = "Pago"

// BuildLedger merges charges and payments into a statement ordered by date.
// On the same day every charge precedes every payment; otherwise input order
// is kept. The running balance is the cumulative credit - debit, so a
// negative balance is money the tenant owes.
func BuildLedger(charges []Charge, payments []Payment) []Entry {
	entries := make([]Entry, 0, len(charges)+len(payments))

	for _, c := range charges {
		entries = append(entries, Entry{
			Date:     Day(c.Date),
			Detail:   c.Description,
			Kind:     EntryCharge,
			SourceID: c.ID,
			Debit:    c.Amount,
			Credit:   decimal.Zero,
		})
	}

	for _, p := range payments {
		detail := p.Notes
		if detail == "" {
			detail = defaultPaymentDetail
		}

		entries = append(entries, Entry{
			Date:     Day(p.Date),
			Detail:   detail,
			Kind:     EntryPayment,
			SourceID: p.ID.String(),
			Debit:    decimal.Zero,
			Credit:   p.Amount,
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		return kindRank(a.Kind) - kindRank(b.Kind)
	})

	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Credit).Sub(entries[i].Debit)
		entries[i].Balance = balance
	}

	return entries
}

func kindRank(k EntryKind) int {
	if k == EntryCharge {
		return 0
	}

	return 1
}

// Statement is the account of a single contract as of a date.
type Statement struct {
	AsOf    time.Time
	Charges []Charge
	Entries []Entry
	Unpaid  []Charge
	Debt    decimal.Decimal
	Balance decimal.Decimal
}

// BuildStatement runs charge generation and ledger assembly for one contract.
func BuildStatement(propertyID string, contractStart time.Time, history []ValueRecord, payments []Payment, asOf time.Time) Statement {
	charges := GenerateCharges(propertyID, contractStart, history, asOf)
	entries := BuildLedger(charges, payments)

	balance := decimal.Zero
	if len(entries) > 0 {
		balance = entries[len(entries)-1].Balance
	}

	return Statement{
		AsOf:    Day(asOf),
		Charges: charges,
		Entries: entries,
		Unpaid:  UnpaidCharges(charges, payments),
		Debt:    OutstandingDebt(charges, payments),
		Balance: balance,
	}
}
