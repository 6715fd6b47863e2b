package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

// MonthChoice is a predefined or custom month selection.
type MonthChoice int

const (
	MonthThis   MonthChoice = 0
	MonthLast   MonthChoice = 1
	MonthNext   MonthChoice = 2
	MonthCustom MonthChoice = 3
)

func (c MonthChoice) String() string {
	switch c {
	case MonthThis:
		return "This Month"
	case MonthLast:
		return "Last Month"
	case MonthNext:
		return "Next Month"
	case MonthCustom:
		return "Custom Month"
	}

	return "Unknown"
}

func choiceToMonth(c MonthChoice, now time.Time) ledger.YearMonth {
	start := ledger.MonthStart(now)

	switch c {
	case MonthLast:
		return ledger.MonthOf(start.AddDate(0, -1, 0))
	case MonthNext:
		return ledger.MonthOf(start.AddDate(0, 1, 0))
	}

	return ledger.MonthOf(start)
}

// MonthSelectedMsg is emitted when the user has picked a month.
type MonthSelectedMsg struct {
	Month ledger.YearMonth
}

type monthPickerState int

const (
	monthPickerSelect monthPickerState = iota
	monthPickerCustom
)

// MonthPicker is a reusable component for selecting a month.
type MonthPicker struct {
	state    monthPickerState
	selected MonthChoice
	input    textinput.Model
	now      func() time.Time

	err error
}

func NewMonthPicker() MonthPicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 10
	in.Prompt = "Month: "

	return MonthPicker{
		state: monthPickerSelect,
		input: in,
		now:   time.Now,
	}
}

func (m MonthPicker) Update(msg tea.Msg) (MonthPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.state == monthPickerSelect {
		if ok {
			return m.updateSelect(keyMsg)
		}

		return m, nil
	}

	if ok {
		switch keyMsg.String() {
		case "enter":
			ym, err := ledger.ParseYearMonth(m.input.Value())
			if err != nil {
				m.err = fmt.Errorf("invalid month (YYYY-MM)")
				return m, nil
			}

			m.err = nil

			return m, func() tea.Msg { return MonthSelectedMsg{Month: ym} }
		case "esc":
			m.state = monthPickerSelect
			m.err = nil

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m MonthPicker) updateSelect(msg tea.KeyMsg) (MonthPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > MonthThis {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < MonthCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == MonthCustom {
			m.state = monthPickerCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		ym := choiceToMonth(m.selected, m.now())

		return m, func() tea.Msg { return MonthSelectedMsg{Month: ym} }
	}

	return m, nil
}

func (m MonthPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == monthPickerCustom {
		return fmt.Sprintf("Enter Month:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	s := "Select Month:\n\n"
	for c := MonthThis; c <= MonthCustom; c++ {
		cursor := " "
		if m.selected == c {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, c.String())
	}

	return s + "\n(Enter to select, Esc to back)" + errStr
}

// IsSelecting reports whether the picker shows the predefined choices.
func (m MonthPicker) IsSelecting() bool {
	return m.state == monthPickerSelect
}

// Reset returns the picker to its initial selection state.
func (m *MonthPicker) Reset() {
	m.state = monthPickerSelect
	m.selected = MonthThis
	m.err = nil
	m.input.SetValue("")
}
