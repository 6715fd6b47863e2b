package inflation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

var (
	ErrNotFound      = errors.New("inflation rate not found")
	ErrInvalidRecord = errors.New("invalid inflation record")
)

// Record is the monthly consumer price variation, in percent, of a month.
type Record struct {
	Month     ledger.YearMonth
	Rate      decimal.Decimal
	UpdatedAt time.Time
}

// ToTable indexes records by month. Later records win on duplicates.
func ToTable(records []Record) ledger.InflationTable {
	table := make(ledger.InflationTable, len(records))
	for _, r := range records {
		table[r.Month] = r.Rate
	}

	return table
}
