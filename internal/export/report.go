package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
)

// MonthlyReport writes a plain-text owner report for the summary's month:
// income, its distribution among owners and the rents due for review.
func MonthlyReport(w io.Writer, s dashboard.Summary) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Informe mensual %s\n", s.Month)
	sb.WriteString(strings.Repeat("=", 24) + "\n\n")

	fmt.Fprintf(&sb, "Propiedades: %d\n", s.PropertyCount)
	fmt.Fprintf(&sb, "Ingresos del mes: %s\n", Money(s.MonthIncome))
	fmt.Fprintf(&sb, "Deuda total pendiente: %s\n", Money(s.TotalDebt))
	fmt.Fprintf(&sb, "Activos totales (alquileres): %s\n\n", Money(s.TotalAssets))

	sb.WriteString("Distribución\n")

	if len(s.Distribution) == 0 {
		sb.WriteString("* Sin socios\n")
	}

	for _, share := range s.Distribution {
		fmt.Fprintf(&sb, "* %s (%s): %s\n", share.Owner.Name, Percent(share.Owner.Percentage), Money(share.Amount))
	}

	sb.WriteString("\nActualizaciones pendientes\n")

	if len(s.DueReviews) == 0 {
		sb.WriteString("* Ninguna\n")
	}

	for _, r := range s.DueReviews {
		fmt.Fprintf(&sb, "* %s | última actualización %s | vence %s\n",
			r.Address, r.LastUpdate.Format("02/01/2006"), r.NextReview.Format("02/01/2006"))
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
