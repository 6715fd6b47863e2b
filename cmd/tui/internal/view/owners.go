package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
)

type ownersState int

const (
	ownersStateMonth ownersState = iota
	ownersStateSettlement
	ownersStateAdvances
	ownersStateShares
)

// ownerFields holds one input pair per owner, in settlement order.
type ownerFields struct {
	Names       []string
	Percentages []string
	Advances    []string
}

// OwnersModel shows how a month's rent is split among the partners and
// records the advances each one already took.
type OwnersModel struct {
	CommonModel
	ownerService     *owner.Service
	dashboardService *dashboard.Service

	state       ownersState
	monthPicker MonthPicker
	month       ledger.YearMonth
	settlement  owner.Settlement
	table       table.Model

	form   *huh.Form
	fields *ownerFields

	status string
	err    error
}

func NewOwnersModel(ownerSvc *owner.Service, dashboardSvc *dashboard.Service) OwnersModel {
	columns := []table.Column{
		{Title: "Owner", Width: 20},
		{Title: "Share", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Advance", Width: 14},
		{Title: "Balance", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	t.SetStyles(tableStyles())

	return OwnersModel{
		ownerService:     ownerSvc,
		dashboardService: dashboardSvc,
		monthPicker:      NewMonthPicker(),
		table:            t,
	}
}

func (m OwnersModel) Title() string { return "Owners" }

func (m OwnersModel) ShortHelp() string {
	switch m.state {
	case ownersStateSettlement:
		return "Esc: back | e: edit advances | x: reset advances | o: edit owners"
	case ownersStateAdvances, ownersStateShares:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m OwnersModel) Init() tea.Cmd {
	return nil
}

func (m OwnersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MonthSelectedMsg:
		m.month = msg.Month
		m.state = ownersStateSettlement

		return m, m.loadCmd()

	case settlementMsg:
		m.err = msg.err
		if msg.err == nil {
			m.settlement = msg.settlement
			m.refreshTable()
		}

		return m, nil

	case ownersSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = ownersStateSettlement
		m.form = nil
		m.fields = nil

		return m, m.loadCmd()
	}

	switch m.state {
	case ownersStateMonth:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.monthPicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.monthPicker, cmd = m.monthPicker.Update(msg)

		return m, cmd

	case ownersStateSettlement:
		return m.updateSettlement(msg)

	case ownersStateAdvances, ownersStateShares:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m OwnersModel) updateSettlement(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = ownersStateMonth
			m.monthPicker.Reset()
			m.status = ""

			return m, nil
		case "e":
			return m.openAdvancesForm()
		case "x":
			return m, m.resetCmd()
		case "o":
			return m.openSharesForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OwnersModel) openAdvancesForm() (tea.Model, tea.Cmd) {
	lines := m.settlement.Lines
	if len(lines) == 0 {
		return m, nil
	}

	f := &ownerFields{Advances: make([]string, len(lines))}
	inputs := make([]huh.Field, 0, len(lines))

	for i, l := range lines {
		f.Advances[i] = l.Advance.StringFixed(2)
		inputs = append(inputs, huh.NewInput().
			Title(l.Owner.Name).
			Description(fmt.Sprintf("Share %s", FormatAmount(l.Share))).
			Value(&f.Advances[i]).
			Validate(validateAmount))
	}

	m.fields = f
	m.form = huh.NewForm(huh.NewGroup(inputs...)).WithWidth(40).WithShowHelp(false)
	m.state = ownersStateAdvances

	return m, m.form.Init()
}

func (m OwnersModel) openSharesForm() (tea.Model, tea.Cmd) {
	lines := m.settlement.Lines
	if len(lines) == 0 {
		return m, nil
	}

	f := &ownerFields{Names: make([]string, len(lines)), Percentages: make([]string, len(lines))}
	groups := make([]*huh.Group, 0, len(lines))

	for i, l := range lines {
		f.Names[i] = l.Owner.Name
		f.Percentages[i] = l.Owner.Percentage.String()
		groups = append(groups, huh.NewGroup(
			huh.NewInput().Title(fmt.Sprintf("Owner %d", i+1)).Value(&f.Names[i]).Validate(required("name")),
			huh.NewInput().Title("Percentage").Value(&f.Percentages[i]).Validate(validateAmount),
		))
	}

	m.fields = f
	m.form = huh.NewForm(groups...).WithWidth(40).WithShowHelp(false)
	m.state = ownersStateShares

	return m, m.form.Init()
}

func (m OwnersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ownersStateSettlement
		m.form = nil
		m.fields = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == ownersStateShares {
		return m, m.saveSharesCmd()
	}

	return m, m.saveAdvancesCmd()
}

func (m OwnersModel) View() string {
	if m.state == ownersStateMonth {
		return lipgloss.NewStyle().Padding(1).Render(m.monthPicker.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorText(m.err) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Settlement %s: rent due %s", m.month, FormatAmount(m.settlement.RentTotal)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.form != nil {
		title := "Advances " + m.month.String()
		if m.state == ownersStateShares {
			title = "Owners"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *OwnersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.settlement.Lines))
	for _, l := range m.settlement.Lines {
		rows = append(rows, table.Row{
			l.Owner.Name,
			export.Percent(l.Owner.Percentage),
			FormatAmount(l.Share),
			FormatAmount(l.Advance),
			FormatAmount(l.Balance),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type settlementMsg struct {
	settlement owner.Settlement
	err        error
}

func (m OwnersModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rent, err := m.dashboardService.MonthlyRent(ctx, month)
		if err != nil {
			return settlementMsg{err: err}
		}

		st, err := m.ownerService.Settlement(ctx, month, rent)

		return settlementMsg{settlement: st, err: err}
	}
}

type ownersSavedMsg struct {
	status string
	err    error
}

func (m OwnersModel) saveAdvancesCmd() tea.Cmd {
	month := m.month
	lines := m.settlement.Lines
	f := m.fields

	return func() tea.Msg {
		advances := make([]owner.Advance, 0, len(lines))

		for i, l := range lines {
			amount, err := parseAmount(f.Advances[i])
			if err != nil {
				return ownersSavedMsg{err: err}
			}

			advances = append(advances, owner.Advance{OwnerID: l.Owner.ID, Amount: amount})
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ownerService.SaveAdvances(ctx, month, advances); err != nil {
			return ownersSavedMsg{err: err}
		}

		return ownersSavedMsg{status: fmt.Sprintf("Saved advances for %s", month)}
	}
}

func (m OwnersModel) saveSharesCmd() tea.Cmd {
	lines := m.settlement.Lines
	f := m.fields

	return func() tea.Msg {
		owners := make([]owner.Owner, 0, len(lines))

		for i, l := range lines {
			pct, err := parseAmount(f.Percentages[i])
			if err != nil {
				return ownersSavedMsg{err: err}
			}

			owners = append(owners, owner.Owner{ID: l.Owner.ID, Name: f.Names[i], Percentage: pct})
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.ownerService.Save(ctx, owners); err != nil {
			return ownersSavedMsg{err: err}
		}

		return ownersSavedMsg{status: "Saved owners"}
	}
}

func (m OwnersModel) resetCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ownerService.ResetAdvances(ctx, month); err != nil {
			return ownersSavedMsg{err: err}
		}

		return ownersSavedMsg{status: fmt.Sprintf("Cleared advances for %s", month)}
	}
}
