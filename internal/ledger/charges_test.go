package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGenerateCharges(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")},
	}

	charges := ledger.GenerateCharges("prop-1", date(2024, 1, 1), history, date(2024, 3, 15))
	require.Len(t, charges, 6)

	wantDates := []time.Time{
		date(2024, 1, 1), date(2024, 1, 1),
		date(2024, 2, 1), date(2024, 2, 1),
		date(2024, 3, 1), date(2024, 3, 1),
	}

	for i, c := range charges {
		assert.Equal(t, wantDates[i], c.Date)

		if i%2 == 0 {
			assert.Equal(t, ledger.ChargeRent, c.Kind)
			assert.Equal(t, "Alquiler", c.Description)
			assert.True(t, c.Amount.Equal(dec("1000")))
		} else {
			assert.Equal(t, ledger.ChargeTax, c.Kind)
			assert.Equal(t, "TSG", c.Description)
			assert.True(t, c.Amount.Equal(dec("100")))
		}
	}

	assert.Equal(t, "prop-1_2024-02-01_alquiler", charges[2].ID)
	assert.Equal(t, "prop-1_2024-02-01_tsg", charges[3].ID)
}

func TestGenerateCharges_Empty(t *testing.T) {
	history := []ledger.ValueRecord{{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")}}

	tests := []struct {
		name    string
		start   time.Time
		history []ledger.ValueRecord
		asOf    time.Time
	}{
		{name: "NoStartDate", start: time.Time{}, history: history, asOf: date(2024, 5, 1)},
		{name: "NoHistory", start: date(2024, 1, 1), history: nil, asOf: date(2024, 5, 1)},
		{name: "StartsAfterAsOf", start: date(2024, 6, 1), history: history, asOf: date(2024, 5, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ledger.GenerateCharges("p", tt.start, tt.history, tt.asOf))
		})
	}
}

func TestGenerateCharges_StartsToday(t *testing.T) {
	today := date(2025, 7, 19)
	history := []ledger.ValueRecord{{Date: today, Rent: dec("500"), Tax: dec("50")}}

	charges := ledger.GenerateCharges("p", today, history, today)
	require.Len(t, charges, 2)
	assert.Equal(t, date(2025, 7, 1), charges[0].Date)
	assert.Equal(t, date(2025, 7, 1), charges[1].Date)
	assert.True(t, charges[0].Amount.Equal(dec("500")))
}

func TestGenerateCharges_StepFunction(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2024, 4, 1), Rent: dec("1200"), Tax: dec("0")},
		{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")},
	}

	// The May step falls on the 10th, after asOf.
	charges := ledger.GenerateCharges("p", date(2024, 1, 10), history, date(2024, 5, 2))
	require.Len(t, charges, 8)

	// March is still priced with the January record.
	assert.True(t, charges[4].Amount.Equal(dec("1000")))
	assert.Equal(t, date(2024, 4, 1), charges[6].Date)
	assert.True(t, charges[6].Amount.Equal(dec("1200")))
	// Zero tax is still accrued as a line.
	assert.Equal(t, ledger.ChargeTax, charges[7].Kind)
	assert.True(t, charges[7].Amount.IsZero())

	// Input history is left untouched.
	assert.Equal(t, date(2024, 4, 1), history[0].Date)
}

func TestGenerateCharges_MidMonthContract(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2024, 1, 15), Rent: dec("1000"), Tax: dec("100")},
		{Date: date(2024, 4, 15), Rent: dec("1200"), Tax: dec("120")},
	}

	tests := []struct {
		name     string
		asOf     time.Time
		wantLen  int
		wantLast time.Time
		wantRent string
	}{
		{name: "BeforeContractDay", asOf: date(2024, 2, 10), wantLen: 2, wantLast: date(2024, 1, 1), wantRent: "1000"},
		{name: "OnContractDay", asOf: date(2024, 2, 15), wantLen: 4, wantLast: date(2024, 2, 1), wantRent: "1000"},
		{name: "UpdateOnContractDay", asOf: date(2024, 4, 20), wantLen: 8, wantLast: date(2024, 4, 1), wantRent: "1200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charges := ledger.GenerateCharges("p", date(2024, 1, 15), history, tt.asOf)
			require.Len(t, charges, tt.wantLen)

			rent := charges[len(charges)-2]
			assert.Equal(t, ledger.ChargeRent, rent.Kind)
			assert.Equal(t, tt.wantLast, rent.Date)
			assert.True(t, rent.Amount.Equal(dec(tt.wantRent)), "rent %s", rent.Amount)
		})
	}
}

func TestGenerateCharges_EndOfMonthContract(t *testing.T) {
	history := []ledger.ValueRecord{{Date: date(2024, 1, 31), Rent: dec("10"), Tax: dec("1")}}

	// Jan 31, Feb 29, Mar 31: the step does not stay clamped to the 29th.
	charges := ledger.GenerateCharges("p", date(2024, 1, 31), history, date(2024, 3, 30))
	require.Len(t, charges, 4)
	assert.Equal(t, date(2024, 2, 1), charges[2].Date)
}

func TestGenerateCharges_Idempotent(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2023, 11, 30), Rent: dec("800"), Tax: dec("80")},
		{Date: date(2024, 2, 1), Rent: dec("900"), Tax: dec("90")},
	}
	asOf := date(2024, 6, 30)

	first := ledger.GenerateCharges("p", date(2023, 11, 30), history, asOf)
	second := ledger.GenerateCharges("p", date(2023, 11, 30), history, asOf)

	assert.Equal(t, first, second)
}

func TestGenerateCharges_LocalStartDate(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	start := time.Date(2024, 1, 31, 23, 0, 0, 0, loc)
	history := []ledger.ValueRecord{{Date: date(2024, 1, 31), Rent: dec("10"), Tax: dec("1")}}

	charges := ledger.GenerateCharges("p", start, history, date(2024, 1, 31))
	require.Len(t, charges, 2)
	assert.Equal(t, date(2024, 1, 1), charges[0].Date)
}

func TestValueAt(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2024, 1, 15), Rent: dec("1000"), Tax: dec("100")},
		{Date: date(2024, 7, 1), Rent: dec("1500"), Tax: dec("150")},
	}

	v, ok := ledger.ValueAt(history, date(2024, 7, 1))
	require.True(t, ok)
	assert.True(t, v.Rent.Equal(dec("1500")))

	v, ok = ledger.ValueAt(history, date(2024, 1, 1))
	require.True(t, ok)
	assert.True(t, v.Rent.Equal(dec("1000")))

	_, ok = ledger.ValueAt(nil, date(2024, 1, 1))
	assert.False(t, ok)
}

func TestUnpaidCharges(t *testing.T) {
	history := []ledger.ValueRecord{{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")}}
	charges := ledger.GenerateCharges("p", date(2024, 1, 1), history, date(2024, 2, 1))
	require.Len(t, charges, 4)

	payments := []ledger.Payment{
		// Allocation is honored even though the amount does not cover the charge.
		{Date: date(2024, 1, 5), Amount: dec("10"), AllocatedChargeIDs: []string{charges[0].ID}},
		{Date: date(2024, 2, 5), Amount: dec("100"), AllocatedChargeIDs: []string{charges[3].ID, "unknown"}},
	}

	unpaid := ledger.UnpaidCharges(charges, payments)
	require.Len(t, unpaid, 2)
	assert.Equal(t, charges[1].ID, unpaid[0].ID)
	assert.Equal(t, charges[2].ID, unpaid[1].ID)

	assert.True(t, ledger.OutstandingDebt(charges, payments).Equal(dec("1100")))
}
