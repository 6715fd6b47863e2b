package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// Money formats an amount in pesos with es-AR separators, e.g. "$ 12.345,50".
func Money(d decimal.Decimal) string {
	return printer.Sprintf("$ %.2f", d.Round(2).InexactFloat64())
}

// Percent formats a rate with es-AR separators, e.g. "4,2 %".
func Percent(d decimal.Decimal) string {
	return printer.Sprintf("%v %%", d.InexactFloat64())
}

// csvAmount renders an amount for spreadsheets configured for a comma
// decimal separator. No grouping is applied.
func csvAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	out := []byte(s)
	for i := range out {
		if out[i] == '.' {
			out[i] = ','
		}
	}

	return string(out)
}
