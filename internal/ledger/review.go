package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LastUpdate is the date the current rent took effect: the latest history
// date once the rent has been updated at least once, the contract start
// otherwise.
func LastUpdate(contractStart time.Time, history []ValueRecord) time.Time {
	if len(history) <= 1 {
		return Day(contractStart)
	}

	latest, _ := LatestValue(history)

	return Day(latest.Date)
}

// IsReviewDue reports whether at least updateFrequencyMonths calendar months
// have passed since the last update. Days of month are ignored. A frequency
// of zero or less means the contract has no review schedule.
func IsReviewDue(contractStart time.Time, updateFrequencyMonths int, history []ValueRecord, asOf time.Time) bool {
	if updateFrequencyMonths <= 0 {
		return false
	}

	return MonthsBetween(LastUpdate(contractStart, history), asOf) >= updateFrequencyMonths
}

// NextReviewDate is the date the next review falls due, or the zero time
// when the contract has no review schedule.
func NextReviewDate(contractStart time.Time, updateFrequencyMonths int, history []ValueRecord) time.Time {
	if updateFrequencyMonths <= 0 || contractStart.IsZero() {
		return time.Time{}
	}

	return AddMonths(LastUpdate(contractStart, history), updateFrequencyMonths)
}

// Suggestion is an advisory inflation-adjusted rent and tax.
type Suggestion struct {
	Rent   decimal.Decimal
	Tax    decimal.Decimal
	Factor decimal.Decimal
	Months []YearMonth
}

// SuggestUpdatedValues compounds the inflation of the updateFrequencyMonths
// months following last.Date and applies it to last's rent and tax, rounded
// to cents. Months missing from the table contribute nothing.
func SuggestUpdatedValues(last ValueRecord, updateFrequencyMonths int, table InflationTable) Suggestion {
	factor := decimal.NewFromInt(1)

	var months []YearMonth

	for i := 1; i <= updateFrequencyMonths; i++ {
		month := MonthOf(AddMonths(Day(last.Date), i))

		rate, ok := table[month]
		if !ok {
			continue
		}

		factor = factor.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred)))
		months = append(months, month)
	}

	return Suggestion{
		Rent:   last.Rent.Mul(factor).Round(2),
		Tax:    last.Tax.Mul(factor).Round(2),
		Factor: factor,
		Months: months,
	}
}

// ContractStatus describes how close a fixed-term contract is to its end.
type ContractStatus struct {
	End        time.Time
	MonthsLeft int
	Expired    bool
	Warn       bool
}

const contractWarningMonths = 2

// ContractStatusAt reports the contract end relative to asOf. It returns
// false for open-ended contracts (durationMonths <= 0) or a missing start.
func ContractStatusAt(contractStart time.Time, durationMonths int, asOf time.Time) (ContractStatus, bool) {
	if contractStart.IsZero() || durationMonths <= 0 {
		return ContractStatus{}, false
	}

	end := AddMonths(Day(contractStart), durationMonths)
	left := MonthsBetween(asOf, end)

	return ContractStatus{
		End:        end,
		MonthsLeft: left,
		Expired:    left < 0,
		Warn:       left <= contractWarningMonths,
	}, true
}
