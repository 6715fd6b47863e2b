package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

// ReviewsModel walks through the properties whose rent review is due and
// applies the inflation-adjusted values one by one.
type ReviewsModel struct {
	CommonModel
	propertyService *property.Service

	queue   []*property.Property
	current *property.Property
	review  property.Review

	rentInput  textinput.Model
	taxInput   textinput.Model
	focusIndex int

	loading    bool
	status     string
	totalCount int
}

func NewReviewsModel(svc *property.Service) ReviewsModel {
	rent := textinput.New()
	rent.Prompt = "Rent: "
	rent.Width = 20

	tax := textinput.New()
	tax.Prompt = "Tax:  "
	tax.Width = 20

	return ReviewsModel{
		propertyService: svc,
		rentInput:       rent,
		taxInput:        tax,
		loading:         true,
	}
}

func (m ReviewsModel) Init() tea.Cmd {
	return m.loadDueCmd()
}

func (m ReviewsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab", "shift+tab":
			m.focusIndex = (m.focusIndex + 1) % 2
			m.rentInput.Blur()
			m.taxInput.Blur()

			if m.focusIndex == 0 {
				m.rentInput.Focus()
			} else {
				m.taxInput.Focus()
			}

			return m, textinput.Blink
		case "enter":
			if m.current != nil {
				return m, m.applyCmd()
			}
		case "ctrl+s":
			if m.current != nil {
				m.status = fmt.Sprintf("Skipped %s", m.current.Address)
				return m.next()
			}
		}

	case loadDueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.props
		m.totalCount = len(m.queue)

		return m.next()

	case reviewDetailMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.review = msg.review
		m.rentInput.SetValue(msg.review.Suggestion.Rent.StringFixed(2))
		m.taxInput.SetValue(msg.review.Suggestion.Tax.StringFixed(2))
		m.focusIndex = 0
		m.rentInput.Focus()
		m.taxInput.Blur()

		return m, textinput.Blink

	case reviewAppliedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Updated %s", m.current.Address)

		return m.next()
	}

	var cmds []tea.Cmd
	var c tea.Cmd

	m.rentInput, c = m.rentInput.Update(msg)
	cmds = append(cmds, c)
	m.taxInput, c = m.taxInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m ReviewsModel) next() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.current = nil
		m.rentInput.SetValue("")
		m.taxInput.SetValue("")

		return m, nil
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]

	return m, m.loadReviewCmd(m.current)
}

func (m ReviewsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading due reviews...")
	}

	if m.current == nil {
		if m.totalCount == 0 {
			return lipgloss.NewStyle().Padding(2).Render("No rent reviews are due.\n\n(Esc to back)")
		}

		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\nAll done!\n\n(Esc to back)")
	}

	r := m.review

	months := "none"
	if len(r.Suggestion.Months) > 0 {
		parts := make([]string, 0, len(r.Suggestion.Months))
		for _, ym := range r.Suggestion.Months {
			parts = append(parts, ym.String())
		}

		months = strings.Join(parts, ", ")
	}

	info := fmt.Sprintf(
		"Property: %s\nTenant: %s\nLast update: %s\nReview date: %s\nCurrent: rent %s, tax %s\nInflation months: %s (x%s)\n",
		m.current.Address,
		m.current.Tenant.Name,
		FormatDate(r.LastUpdate),
		FormatDate(r.NextReview),
		FormatAmount(r.Latest.Rent),
		FormatAmount(r.Latest.Tax),
		months,
		r.Suggestion.Factor.StringFixed(4),
	)

	if r.Contract != nil && r.Contract.Warn {
		info += lipgloss.NewStyle().Foreground(lipgloss.Color("214")).
			Render(fmt.Sprintf("Contract ends %s (%d months left)", FormatDate(r.Contract.End), r.Contract.MonthsLeft)) + "\n"
	}

	status := ""
	if m.status != "" {
		status = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n"
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%sRent Review (%d remaining)\n\n%s\nNew values:\n%s\n%s\n\n(Enter to apply, Ctrl+S to skip, Tab to switch, Esc to back)",
			status, len(m.queue)+1, info, m.rentInput.View(), m.taxInput.View()),
	)
}

// Messages

type loadDueMsg struct {
	props []*property.Property
	err   error
}

func (m ReviewsModel) loadDueCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		props, err := m.propertyService.DueForReview(ctx, today())

		return loadDueMsg{props: props, err: err}
	}
}

type reviewDetailMsg struct {
	review property.Review
	err    error
}

func (m ReviewsModel) loadReviewCmd(p *property.Property) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.propertyService.Review(ctx, p.ID, today())

		return reviewDetailMsg{review: r, err: err}
	}
}

type reviewAppliedMsg struct {
	err error
}

func (m ReviewsModel) applyCmd() tea.Cmd {
	p := m.current
	date := m.review.NextReview
	rentStr := m.rentInput.Value()
	taxStr := m.taxInput.Value()

	return func() tea.Msg {
		rent, err := parseAmount(rentStr)
		if err != nil {
			return reviewAppliedMsg{err: err}
		}

		tax, err := parseAmount(taxStr)
		if err != nil {
			return reviewAppliedMsg{err: err}
		}

		if date.IsZero() {
			date = today()
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.propertyService.ApplyRentUpdate(ctx, p.ID, ledger.ValueRecord{Date: date, Rent: rent, Tax: tax})

		return reviewAppliedMsg{err: err}
	}
}
