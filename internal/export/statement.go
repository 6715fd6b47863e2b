package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/sanitize"
)

var statementHeader = []string{"Fecha", "Detalle", "Debe", "Haber", "Saldo"}

// StatementCSV writes the account entries as a semicolon separated CSV,
// followed by the outstanding debt. Free text cells are guarded against
// formula injection.
func StatementCSV(w io.Writer, st ledger.Statement) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(statementHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range st.Entries {
		row := []string{
			e.Date.Format("2006-01-02"),
			sanitize.Cell(e.Detail),
			csvAmount(e.Debit),
			csvAmount(e.Credit),
			csvAmount(e.Balance),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing entry: %w", err)
		}
	}

	footer := []string{st.AsOf.Format("2006-01-02"), "Deuda pendiente", "", "", csvAmount(st.Debt)}
	if err := cw.Write(footer); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}

	cw.Flush()

	return cw.Error()
}
