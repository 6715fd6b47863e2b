package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/importer"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

const importTimeout = 2 * time.Minute

type inflationState int

const (
	inflationStateBrowse inflationState = iota
	inflationStateAdd
	inflationStateSourceSelect
	inflationStateFilePick
	inflationStateImporting
	inflationStateResult
)

type rateFields struct {
	Month string
	Rate  string
}

type InflationModel struct {
	CommonModel
	inflationService *inflation.Service
	importService    *importer.Service

	state   inflationState
	table   table.Model
	records []inflation.Record

	form   *huh.Form
	fields *rateFields

	filePicker     filepicker.Model
	sourceOptions  []importer.Source
	sourceCursor   int
	selectedSource importer.Source

	status string
	err    error
}

func NewInflationModel(svc *inflation.Service, impSvc *importer.Service) InflationModel {
	columns := []table.Column{
		{Title: "Month", Width: 10},
		{Title: "Rate", Width: 10},
		{Title: "Updated", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return InflationModel{
		inflationService: svc,
		importService:    impSvc,
		table:            t,
		filePicker:       fp,
		sourceOptions:    []importer.Source{importer.SourceINDEC},
	}
}

func (m InflationModel) Title() string { return "Inflation" }

func (m InflationModel) ShortHelp() string {
	switch m.state {
	case inflationStateBrowse:
		return "Esc: back | a: add | d: delete | i: import file | r: refresh"
	case inflationStateAdd:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m InflationModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InflationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRatesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.records = msg.records
		m.refreshTable()

		return m, nil

	case rateSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = inflationStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case rateImportMsg:
		m.state = inflationStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d months (%d rows skipped).", msg.result.Saved, msg.result.Skipped)

		return m, m.loadCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case inflationStateBrowse:
			return m.updateBrowse(msg)
		case inflationStateSourceSelect:
			return m.updateSourceSelect(msg)
		}
	}

	switch m.state {
	case inflationStateAdd:
		return m.updateAdd(msg)
	case inflationStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m InflationModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case inflationStateBrowse:
		return m, Back
	case inflationStateFilePick:
		m.state = inflationStateSourceSelect
		return m, nil
	}

	m.state = inflationStateBrowse
	m.form = nil
	m.err = nil
	m.table.Focus()

	return m, nil
}

func (m InflationModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.loadCmd()
	case "a":
		m.fields = &rateFields{Month: ledger.MonthOf(today()).String()}
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Month").Placeholder("YYYY-MM").Value(&m.fields.Month).
					Validate(func(s string) error {
						_, err := ledger.ParseYearMonth(s)
						return err
					}),
				huh.NewInput().Title("Monthly rate (%)").Value(&m.fields.Rate).
					Validate(func(s string) error {
						_, err := parseAmount(s)
						return err
					}),
			),
		).WithWidth(40).WithShowHelp(false)
		m.state = inflationStateAdd
		m.table.Blur()

		return m, m.form.Init()
	case "d":
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.records) {
			return m, nil
		}

		return m, m.deleteCmd(m.records[idx].Month)
	case "i":
		m.state = inflationStateSourceSelect
		m.status = ""

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InflationModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m InflationModel) updateSourceSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case tea.KeyDown:
		if m.sourceCursor < len(m.sourceOptions)-1 {
			m.sourceCursor++
		}
	case tea.KeyEnter:
		m.selectedSource = m.sourceOptions[m.sourceCursor]
		m.state = inflationStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m InflationModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = inflationStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m InflationModel) View() string {
	switch m.state {
	case inflationStateSourceSelect:
		s := "Select Source:\n\n"

		for i, src := range m.sourceOptions {
			cursor := " "
			if i == m.sourceCursor {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s\n", cursor, string(src))
		}

		return lipgloss.NewStyle().Padding(2).Render(s)
	case inflationStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedSource, m.filePicker.View()),
		)
	case inflationStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case inflationStateResult:
		color := lipgloss.Color("46")
		if m.err != nil {
			color = lipgloss.Color("196")
		}

		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
		)
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state == inflationStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render("Add Rate\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	if m.err != nil {
		content = errorText(m.err) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InflationModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))

	// Newest first.
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		rows = append(rows, table.Row{r.Month.String(), export.Percent(r.Rate), FormatDate(r.UpdatedAt)})
	}

	m.table.SetRows(rows)
}

// Messages

type loadRatesMsg struct {
	records []inflation.Record
	err     error
}

func (m InflationModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.inflationService.List(ctx)

		return loadRatesMsg{records: records, err: err}
	}
}

type rateSavedMsg struct {
	status string
	err    error
}

func (m InflationModel) saveCmd() tea.Cmd {
	f := m.fields

	return func() tea.Msg {
		rate, err := parseAmount(f.Rate)
		if err != nil {
			return rateSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.inflationService.Save(ctx, []inflation.Record{{Month: ledger.YearMonth(f.Month), Rate: rate}}); err != nil {
			return rateSavedMsg{err: err}
		}

		return rateSavedMsg{status: fmt.Sprintf("Saved %s: %s", f.Month, export.Percent(rate))}
	}
}

func (m InflationModel) deleteCmd(month ledger.YearMonth) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.inflationService.Delete(ctx, month); err != nil {
			return rateSavedMsg{err: err}
		}

		return rateSavedMsg{status: fmt.Sprintf("Deleted %s", month)}
	}
}

type rateImportMsg struct {
	result inflation.ImportResult
	err    error
}

func (m InflationModel) importCmd(path string) tea.Cmd {
	source := m.selectedSource

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return rateImportMsg{err: err}
		}
		defer f.Close()

		records, err := m.importService.Parse(source, f)
		if err != nil {
			return rateImportMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.inflationService.Import(ctx, records)

		return rateImportMsg{result: result, err: err}
	}
}
