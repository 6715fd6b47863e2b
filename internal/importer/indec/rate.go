package indec

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

// parseRate parses a percentage such as "2,4", "2.4", "2,4 %" or "1.234,5".
func parseRate(s string) (decimal.Decimal, error) {
	return ledger.ParseAmount(s)
}
