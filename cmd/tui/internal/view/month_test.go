package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

func TestChoiceToMonth(t *testing.T) {
	now := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		choice MonthChoice
		want   ledger.YearMonth
	}{
		{choice: MonthThis, want: "2024-01"},
		{choice: MonthLast, want: "2023-12"},
		{choice: MonthNext, want: "2024-02"},
	}

	for _, tt := range tests {
		t.Run(tt.choice.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, choiceToMonth(tt.choice, now))
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := parseAmount(" 1234,5 ")
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1234.5")))

	for _, in := range []string{"1.234,50", "$ 1.234,50", "1234.50"} {
		got, err := parseAmount(in)
		assert.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString("1234.5")), in)
	}

	_, err = parseAmount("abc")
	assert.Error(t, err)

	assert.Error(t, validatePositive("0"))
	assert.NoError(t, validatePositive("0.01"))
	assert.Error(t, validateMonths("-1"))
	assert.NoError(t, validateMonths("12"))
}
