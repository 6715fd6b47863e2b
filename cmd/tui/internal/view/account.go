package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

// AccountModel shows the running account of one property.
type AccountModel struct {
	property  *property.Property
	statement ledger.Statement
	table     table.Model
}

func NewAccountModel(p *property.Property, st ledger.Statement) AccountModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Detail", Width: 30},
		{Title: "Debit", Width: 14},
		{Title: "Credit", Width: 14},
		{Title: "Balance", Width: 14},
	}

	rows := make([]table.Row, 0, len(st.Entries))
	for _, e := range st.Entries {
		debit, credit := "", ""
		if e.Kind == ledger.EntryCharge {
			debit = FormatAmount(e.Debit)
		} else {
			credit = FormatAmount(e.Credit)
		}

		rows = append(rows, table.Row{FormatDate(e.Date), e.Detail, debit, credit, FormatAmount(e.Balance)})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())
	t.GotoBottom()

	return AccountModel{property: p, statement: st, table: t}
}

func (m AccountModel) Update(msg tea.Msg) (AccountModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.property.Address)

	debt := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("No outstanding debt")
	if m.statement.Debt.IsPositive() {
		debt = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(
			fmt.Sprintf("Outstanding debt: %s (%d unpaid charges)", FormatAmount(m.statement.Debt), len(m.statement.Unpaid)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		fmt.Sprintf("As of %s", FormatDate(m.statement.AsOf)),
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		debt,
		"",
		"(Esc to back)",
	)
}
