package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

func TestIsReviewDue(t *testing.T) {
	single := []ledger.ValueRecord{{Date: date(2023, 1, 1), Rent: dec("1000"), Tax: dec("100")}}
	updated := []ledger.ValueRecord{
		{Date: date(2023, 1, 1), Rent: dec("1000"), Tax: dec("100")},
		{Date: date(2023, 9, 1), Rent: dec("1300"), Tax: dec("130")},
	}

	tests := []struct {
		name      string
		start     time.Time
		frequency int
		history   []ledger.ValueRecord
		asOf      time.Time
		want      bool
	}{
		{name: "ThirteenMonthsSinceStart", start: date(2023, 1, 1), frequency: 12, history: single, asOf: date(2024, 2, 1), want: true},
		{name: "ExactlyFrequency", start: date(2023, 1, 31), frequency: 12, history: single, asOf: date(2024, 1, 1), want: true},
		{name: "NotYet", start: date(2023, 1, 1), frequency: 12, history: single, asOf: date(2023, 12, 31), want: false},
		{name: "UsesLatestHistoryDate", start: date(2023, 1, 1), frequency: 6, history: updated, asOf: date(2024, 2, 28), want: false},
		{name: "LatestHistoryDateElapsed", start: date(2023, 1, 1), frequency: 6, history: updated, asOf: date(2024, 3, 1), want: true},
		{name: "NoSchedule", start: date(2020, 1, 1), frequency: 0, history: single, asOf: date(2024, 3, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.IsReviewDue(tt.start, tt.frequency, tt.history, tt.asOf))
		})
	}
}

func TestIsReviewDue_SingleRecordUsesContractStart(t *testing.T) {
	// With a single record its date is ignored in favour of the contract start.
	history := []ledger.ValueRecord{{Date: date(2024, 1, 1), Rent: dec("1"), Tax: dec("1")}}

	assert.True(t, ledger.IsReviewDue(date(2023, 1, 1), 12, history, date(2024, 1, 15)))
}

func TestNextReviewDate(t *testing.T) {
	history := []ledger.ValueRecord{
		{Date: date(2023, 1, 31), Rent: dec("1000"), Tax: dec("100")},
		{Date: date(2023, 8, 31), Rent: dec("1200"), Tax: dec("120")},
	}

	assert.Equal(t, date(2024, 2, 29), ledger.NextReviewDate(date(2023, 1, 31), 6, history))
	assert.Equal(t, date(2023, 4, 30), ledger.NextReviewDate(date(2023, 1, 31), 3, history[:1]))
	assert.True(t, ledger.NextReviewDate(date(2023, 1, 31), 0, history).IsZero())
}

func TestSuggestUpdatedValues(t *testing.T) {
	last := ledger.ValueRecord{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")}
	table := ledger.InflationTable{
		"2024-02": dec("5"),
		"2024-03": dec("3"),
		"2025-02": dec("50"),
	}

	got := ledger.SuggestUpdatedValues(last, 12, table)

	assert.True(t, got.Factor.Equal(dec("1.0815")), "factor %s", got.Factor)
	assert.True(t, got.Rent.Equal(dec("1081.50")), "rent %s", got.Rent)
	assert.True(t, got.Tax.Equal(dec("108.15")), "tax %s", got.Tax)
	assert.Equal(t, []ledger.YearMonth{"2024-02", "2024-03"}, got.Months)
}

func TestSuggestUpdatedValues_NoData(t *testing.T) {
	last := ledger.ValueRecord{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")}

	got := ledger.SuggestUpdatedValues(last, 6, nil)

	assert.True(t, got.Factor.Equal(dec("1")))
	assert.True(t, got.Rent.Equal(dec("1000")))
	assert.True(t, got.Tax.Equal(dec("100")))
	assert.Empty(t, got.Months)
}

func TestSuggestUpdatedValues_Rounding(t *testing.T) {
	last := ledger.ValueRecord{Date: date(2024, 5, 31), Rent: dec("333.33"), Tax: dec("0")}
	table := ledger.InflationTable{"2024-06": dec("4.2"), "2024-07": dec("-0.5")}

	got := ledger.SuggestUpdatedValues(last, 2, table)

	// 333.33 * 1.042 * 0.995 = 345.5932...
	assert.True(t, got.Rent.Equal(dec("345.59")), "rent %s", got.Rent)
	assert.True(t, got.Tax.IsZero())
}

func TestContractStatusAt(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		asOf     time.Time
		want     ledger.ContractStatus
	}{
		{
			name:     "FarFromEnd",
			duration: 24,
			asOf:     date(2024, 3, 1),
			want:     ledger.ContractStatus{End: date(2025, 1, 10), MonthsLeft: 10},
		},
		{
			name:     "EndsNextMonth",
			duration: 24,
			asOf:     date(2024, 12, 20),
			want:     ledger.ContractStatus{End: date(2025, 1, 10), MonthsLeft: 1, Warn: true},
		},
		{
			name:     "Expired",
			duration: 24,
			asOf:     date(2025, 3, 1),
			want:     ledger.ContractStatus{End: date(2025, 1, 10), MonthsLeft: -2, Expired: true, Warn: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ledger.ContractStatusAt(date(2023, 1, 10), tt.duration, tt.asOf)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ledger.ContractStatusAt(date(2023, 1, 10), 0, date(2024, 1, 1))
	assert.False(t, ok)
}

func TestYearMonth(t *testing.T) {
	ym, err := ledger.ParseYearMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 1), ym.Start())
	assert.Equal(t, ledger.YearMonth("2024-02"), ledger.MonthOf(date(2024, 2, 29)))

	_, err = ledger.ParseYearMonth("2024-13")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1234.5", want: "1234.5"},
		{in: " 1234,5 ", want: "1234.5"},
		{in: "1.234,50", want: "1234.5"},
		{in: "$ 12.345,50", want: "12345.5"},
		{in: "2,4 %", want: "2.4"},
		{in: "-0,5", want: "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ledger.ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}

	_, err := ledger.ParseAmount("abc")
	assert.Error(t, err)
}
