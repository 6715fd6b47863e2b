// Package ledger holds the bookkeeping rules of a rental contract: monthly
// charge accrual, the running-balance statement and the rent review policy.
//
// Everything in this package is a pure function of its arguments. Callers
// fetch properties, payments and inflation rates first and pass "now" in
// explicitly as asOf.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeKind identifies which monthly obligation a charge accrues.
type ChargeKind string

const (
	ChargeRent ChargeKind = "alquiler"
	ChargeTax  ChargeKind = "tsg"
)

// Description returns the label shown on statements for the kind.
func (k ChargeKind) Description() string {
	switch k {
	case ChargeRent:
		return "Alquiler"
	case ChargeTax:
		return "TSG"
	}

	return string(k)
}

// ValueRecord is the rent and tax in effect from Date onwards.
type ValueRecord struct {
	Date time.Time
	Rent decimal.Decimal
	Tax  decimal.Decimal
}

// Charge is a derived monthly accrual. It is never stored.
type Charge struct {
	ID          string
	Date        time.Time
	Description string
	Kind        ChargeKind
	Amount      decimal.Decimal
}

// Payment is money received from the tenant. AllocatedChargeIDs only tags
// which charges the payment is meant to cover; it plays no part in balances.
type Payment struct {
	ID                 uuid.UUID
	Date               time.Time
	Amount             decimal.Decimal
	Notes              string
	AllocatedChargeIDs []string
}

// EntryKind tells whether a ledger entry came from a charge or a payment.
type EntryKind string

const (
	EntryCharge  EntryKind = "charge"
	EntryPayment EntryKind = "payment"
)

// Entry is one row of an account statement.
type Entry struct {
	Date     time.Time
	Detail   string
	Kind     EntryKind
	SourceID string
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

// YearMonth is a calendar month formatted as YYYY-MM.
type YearMonth string

const yearMonthLayout = "2006-01"

// MonthOf returns the calendar month t falls in.
func MonthOf(t time.Time) YearMonth {
	return YearMonth(t.Format(yearMonthLayout))
}

// ParseYearMonth validates s as a YYYY-MM month.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return "", fmt.Errorf("parsing year-month %q: %w", s, err)
	}

	return MonthOf(t), nil
}

// Start returns the first day of the month. It returns the zero time for a
// malformed value.
func (ym YearMonth) Start() time.Time {
	t, err := time.Parse(yearMonthLayout, string(ym))
	if err != nil {
		return time.Time{}
	}

	return t
}

func (ym YearMonth) String() string { return string(ym) }

// InflationTable maps a month to its inflation rate in percent. Months
// without data are simply absent.
type InflationTable map[YearMonth]decimal.Decimal

// Day drops the clock from t, keeping its calendar date as seen in t's own
// location, and returns it at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month t falls in.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween is the calendar month difference to - from, ignoring days.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// AddMonths moves t by n calendar months without spilling into the next
// month when the day does not exist in the target month.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	return time.Date(first.Year(), first.Month(), min(t.Day(), last), 0, 0, 0, 0, time.UTC)
}

// ParseAmount reads a number typed or exported in either notation: "1234.5",
// "1234,5" or es-AR grouped "$ 1.234,50". A comma, when present, is the
// decimal separator and every dot before it is grouping.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSpace(strings.TrimPrefix(clean, "$"))
	clean = strings.TrimSpace(strings.TrimSuffix(clean, "%"))

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d, nil
}
