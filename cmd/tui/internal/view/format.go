package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats money the way statements and reports print it.
func FormatAmount(d decimal.Decimal) string {
	return export.Money(d)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date (YYYY-MM-DD)")
	}

	return ledger.Day(t), nil
}

// parseAmount accepts amounts as FormatAmount prints them as well as plain
// "1234.5" or "1234,5".
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := ledger.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}

	return d, nil
}

func validateDay(s string) error {
	_, err := parseDay(s)
	return err
}

func validateAmount(s string) error {
	d, err := parseAmount(s)
	if err != nil {
		return err
	}

	if d.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}

	return nil
}

func today() time.Time {
	return ledger.Day(time.Now())
}
