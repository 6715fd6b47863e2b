package indec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

var periodLayouts = []string{"2006-01", "01/2006", "1/2006", "2006-01-02", "02/01/2006"}

var spanishMonths = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March, "abr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "ago": time.August,
	"sep": time.September, "set": time.September, "oct": time.October,
	"nov": time.November, "dic": time.December,
}

// parsePeriod reads the month a row refers to. Besides numeric layouts it
// accepts Spanish month abbreviations such as "ene-24" or "Enero 2024".
func parsePeriod(s string) (ledger.YearMonth, error) {
	s = strings.TrimSpace(s)

	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ledger.MonthOf(t), nil
		}
	}

	fields := strings.FieldsFunc(strings.ToLower(fold(s)), func(r rune) bool {
		return r == '-' || r == ' ' || r == '/' || r == '.'
	})
	if len(fields) != 2 || len(fields[0]) < 3 {
		return "", fmt.Errorf("unrecognized period %q", s)
	}

	month, ok := spanishMonths[fields[0][:3]]
	if !ok {
		return "", fmt.Errorf("unrecognized month in %q", s)
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", fmt.Errorf("unrecognized year in %q", s)
	}

	if year < 100 {
		year += 2000
	}

	return ledger.MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)), nil
}
