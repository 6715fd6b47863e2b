package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
)

// MonthlyIncome is the sum of payments received during a month.
type MonthlyIncome struct {
	Month  ledger.YearMonth
	Amount decimal.Decimal
}

// DueReview identifies a property whose rent should be updated.
type DueReview struct {
	PropertyID uuid.UUID
	Address    string
	LastUpdate time.Time
	NextReview time.Time
}

// Summary is the portfolio overview for a selected month.
type Summary struct {
	Month         ledger.YearMonth
	AsOf          time.Time
	PropertyCount int
	IncomeByMonth []MonthlyIncome
	MonthIncome   decimal.Decimal
	TotalDebt     decimal.Decimal
	TotalAssets   decimal.Decimal
	Distribution  []owner.Share
	DueReviews    []DueReview
}
