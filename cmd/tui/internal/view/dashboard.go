package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

type DashboardModel struct {
	CommonModel
	dashboardService *dashboard.Service

	monthPicker MonthPicker
	month       ledger.YearMonth
	report      string
	selecting   bool
	err         error
}

func NewDashboardModel(svc *dashboard.Service) DashboardModel {
	return DashboardModel{
		dashboardService: svc,
		monthPicker:      NewMonthPicker(),
		selecting:        true,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MonthSelectedMsg:
		m.month = msg.Month
		m.selecting = false
		m.report = ""

		return m, m.loadCmd()

	case summaryMsg:
		m.err = msg.err
		m.report = msg.report

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if !m.selecting {
				m.selecting = true
				m.monthPicker.Reset()

				return m, nil
			}

			if m.monthPicker.IsSelecting() {
				return m, Back
			}
		}
	}

	if !m.selecting {
		return m, nil
	}

	var cmd tea.Cmd
	m.monthPicker, cmd = m.monthPicker.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	if m.selecting {
		return lipgloss.NewStyle().Padding(1).Render(m.monthPicker.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorText(m.err),
		)
	}

	if m.report == "" {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Loading %s...", m.month))
	}

	return lipgloss.NewStyle().Padding(1).Render(m.report + "\n(Esc to back)")
}

type summaryMsg struct {
	report string
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		asOf := today()
		if end := ledger.AddMonths(month.Start(), 1).AddDate(0, 0, -1); end.Before(asOf) {
			asOf = end
		}

		s, err := m.dashboardService.Summary(ctx, month, asOf)
		if err != nil {
			return summaryMsg{err: err}
		}

		var b strings.Builder
		if err := export.MonthlyReport(&b, s); err != nil {
			return summaryMsg{err: err}
		}

		return summaryMsg{report: b.String()}
	}
}
