package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// GenerateCharges accrues one rent and one tax charge per month elapsed since
// contractStart. It steps from the contract day one calendar month at a time
// while the step date is not after asOf.
//
// Each month is priced with the value record in effect on its step date,
// falling back to the earliest record, and the charge itself is dated on the
// 1st of that month. Zero amounts are emitted like any other. A zero
// contractStart or an empty history yields no charges.
func GenerateCharges(propertyID string, contractStart time.Time, history []ValueRecord, asOf time.Time) []Charge {
	if contractStart.IsZero() || len(history) == 0 {
		return nil
	}

	sorted := SortHistory(history)
	start := Day(contractStart)
	end := Day(asOf)

	var charges []Charge

	for i := 0; ; i++ {
		// Stepping from start each time keeps a 31st from drifting to the 28th.
		d := AddMonths(start, i)
		if d.After(end) {
			break
		}

		value := valueAt(sorted, d)
		chargeDate := MonthStart(d)

		charges = append(charges,
			newCharge(propertyID, chargeDate, ChargeRent, value.Rent),
			newCharge(propertyID, chargeDate, ChargeTax, value.Tax),
		)
	}

	return charges
}

// ChargeID is the stable identifier of the charge of the given kind for a
// property on date. Payments refer to charges by this ID.
func ChargeID(propertyID string, date time.Time, kind ChargeKind) string {
	return fmt.Sprintf("%s_%s_%s", propertyID, date.Format(time.DateOnly), kind)
}

func newCharge(propertyID string, date time.Time, kind ChargeKind, amount decimal.Decimal) Charge {
	return Charge{
		ID:          ChargeID(propertyID, date, kind),
		Date:        date,
		Description: kind.Description(),
		Kind:        kind,
		Amount:      amount,
	}
}

// SortHistory returns a copy of history ordered by date ascending.
func SortHistory(history []ValueRecord) []ValueRecord {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b ValueRecord) int {
		return Day(a.Date).Compare(Day(b.Date))
	})

	return sorted
}

// ValueAt returns the record in effect on date: the latest one dated on or
// before it, or the earliest record when date precedes them all. It returns
// false only for an empty history.
func ValueAt(history []ValueRecord, date time.Time) (ValueRecord, bool) {
	if len(history) == 0 {
		return ValueRecord{}, false
	}

	return valueAt(SortHistory(history), Day(date)), true
}

// LatestValue returns the record with the most recent date.
func LatestValue(history []ValueRecord) (ValueRecord, bool) {
	if len(history) == 0 {
		return ValueRecord{}, false
	}

	sorted := SortHistory(history)

	return sorted[len(sorted)-1], true
}

// valueAt expects sorted, non-empty history.
func valueAt(sorted []ValueRecord, date time.Time) ValueRecord {
	applicable := sorted[0]

	for _, v := range sorted {
		if Day(v.Date).After(date) {
			break
		}

		applicable = v
	}

	return applicable
}

// PaidChargeIDs is the union of every payment's allocated charge IDs.
func PaidChargeIDs(payments []Payment) map[string]struct{} {
	paid := make(map[string]struct{})

	for _, p := range payments {
		for _, id := range p.AllocatedChargeIDs {
			paid[id] = struct{}{}
		}
	}

	return paid
}

// UnpaidCharges filters out charges that some payment is allocated to,
// whatever the amounts involved.
func UnpaidCharges(charges []Charge, payments []Payment) []Charge {
	paid := PaidChargeIDs(payments)

	var unpaid []Charge

	for _, c := range charges {
		if _, ok := paid[c.ID]; ok {
			continue
		}

		unpaid = append(unpaid, c)
	}

	return unpaid
}

// OutstandingDebt sums the amounts of unpaid charges.
func OutstandingDebt(charges []Charge, payments []Payment) decimal.Decimal {
	total := decimal.Zero

	for _, c := range UnpaidCharges(charges, payments) {
		total = total.Add(c.Amount)
	}

	return total
}
