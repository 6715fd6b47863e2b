package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

type propertiesState int

const (
	propertiesStateBrowse propertiesState = iota
	propertiesStateForm
	propertiesStateAccount
)

type formKind int

const (
	formNewProperty formKind = iota
	formPayment
	formRentUpdate
	formContract
)

// propertyFields backs every property form. It lives behind a pointer so
// the bindings survive the model being copied between updates.
type propertyFields struct {
	Address   string
	Tenant    string
	Email     string
	Phone     string
	Start     string
	Duration  string
	Frequency string

	Date    string
	Rent    string
	Tax     string
	Amount  string
	Notes   string
	Charges []string

	ContractName string
	ContractURL  string
}

type PropertiesModel struct {
	CommonModel
	propertyService *property.Service

	state   propertiesState
	table   table.Model
	props   []*property.Property
	account AccountModel

	form     *huh.Form
	formKind formKind
	fields   *propertyFields
	target   *property.Property

	loading bool
	err     error
	status  string
}

func NewPropertiesModel(svc *property.Service) PropertiesModel {
	columns := []table.Column{
		{Title: "Address", Width: 30},
		{Title: "Tenant", Width: 20},
		{Title: "Rent", Width: 14},
		{Title: "Tax", Width: 12},
		{Title: "Debt", Width: 14},
		{Title: "Next Review", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return PropertiesModel{
		propertyService: svc,
		table:           t,
		loading:         true,
	}
}

func (m PropertiesModel) Title() string { return "Properties" }

func (m PropertiesModel) ShortHelp() string {
	switch m.state {
	case propertiesStateForm:
		return "Navigate form | Esc: cancel"
	case propertiesStateAccount:
		return "Esc: back"
	}

	return "Esc: back | a: account | p: payment | u: rent update | c: contract | n: new | r: refresh"
}

func (m PropertiesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PropertiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPropertiesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.props = msg.props
		m.refreshTable()

		return m, nil

	case reviewLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading suggestion: %v", msg.err)
			return m, nil
		}

		return m.openRentForm(msg.review)

	case propertySaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.closeForm()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case propertiesStateBrowse:
		return m.updateBrowse(msg)
	case propertiesStateForm:
		return m.updateForm(msg)
	case propertiesStateAccount:
		return m.updateAccount(msg)
	}

	return m, nil
}

func (m PropertiesModel) selected() *property.Property {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.props) {
		return nil
	}

	return m.props[idx]
}

func (m PropertiesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.openNewForm()
		case "a", "enter":
			if p := m.selected(); p != nil {
				m.account = NewAccountModel(p, p.Statement(today()))
				m.state = propertiesStateAccount
				m.table.Blur()
			}

			return m, nil
		case "p":
			if p := m.selected(); p != nil {
				return m.openPaymentForm(p)
			}

			return m, nil
		case "u":
			if p := m.selected(); p != nil {
				m.target = p
				return m, m.loadReviewCmd(p.ID)
			}

			return m, nil
		case "c":
			if p := m.selected(); p != nil {
				return m.openContractForm(p)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PropertiesModel) updateAccount(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = propertiesStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.account, cmd = m.account.Update(msg)

	return m, cmd
}

func (m PropertiesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m *PropertiesModel) closeForm() {
	m.state = propertiesStateBrowse
	m.form = nil
	m.fields = nil
	m.target = nil
	m.table.Focus()
}

func (m PropertiesModel) openForm(kind formKind, target *property.Property, fields *propertyFields, groups ...*huh.Group) (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
	m.formKind = kind
	m.fields = fields
	m.target = target
	m.state = propertiesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m PropertiesModel) openNewForm() (tea.Model, tea.Cmd) {
	f := &propertyFields{Start: FormatDate(today()), Duration: "24", Frequency: "4", Tax: "0"}

	return m.openForm(formNewProperty, nil, f,
		huh.NewGroup(
			huh.NewInput().Title("Address").Value(&f.Address).Validate(required("address")),
			huh.NewInput().Title("Tenant").Value(&f.Tenant),
			huh.NewInput().Title("Tenant email").Value(&f.Email),
			huh.NewInput().Title("Tenant phone").Value(&f.Phone),
		),
		huh.NewGroup(
			huh.NewInput().Title("Rent").Value(&f.Rent).Validate(validateAmount),
			huh.NewInput().Title("Tax").Value(&f.Tax).Validate(validateAmount),
			huh.NewInput().Title("Contract start").Placeholder("YYYY-MM-DD").Value(&f.Start).Validate(validateDay),
			huh.NewInput().Title("Contract length (months)").Description("0 for open-ended").
				Value(&f.Duration).Validate(validateMonths),
			huh.NewInput().Title("Update every (months)").Value(&f.Frequency).Validate(validateMonths),
		),
	)
}

func (m PropertiesModel) openPaymentForm(p *property.Property) (tea.Model, tea.Cmd) {
	f := &propertyFields{Date: FormatDate(today())}

	unpaid := p.Statement(today()).Unpaid
	options := make([]huh.Option[string], 0, len(unpaid))

	for _, c := range unpaid {
		label := fmt.Sprintf("%s %s %s", ledger.MonthOf(c.Date), c.Description, FormatAmount(c.Amount))
		options = append(options, huh.NewOption(label, c.ID))
	}

	fields := []huh.Field{
		huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&f.Date).Validate(validateDay),
		huh.NewInput().Title("Amount").Value(&f.Amount).Validate(validatePositive),
		huh.NewInput().Title("Notes").Value(&f.Notes),
	}

	if len(options) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Charges covered").
			Options(options...).
			Value(&f.Charges))
	}

	return m.openForm(formPayment, p, f, huh.NewGroup(fields...))
}

func (m PropertiesModel) openRentForm(r property.Review) (tea.Model, tea.Cmd) {
	if m.target == nil {
		return m, nil
	}

	date := r.NextReview
	if date.IsZero() {
		date = today()
	}

	f := &propertyFields{
		Date: FormatDate(date),
		Rent: r.Suggestion.Rent.StringFixed(2),
		Tax:  r.Suggestion.Tax.StringFixed(2),
	}

	desc := "No inflation data for the period"
	if len(r.Suggestion.Months) > 0 {
		desc = fmt.Sprintf("Suggested from %d months of inflation (x%s)", len(r.Suggestion.Months), r.Suggestion.Factor.StringFixed(4))
	}

	return m.openForm(formRentUpdate, m.target, f,
		huh.NewGroup(
			huh.NewNote().Title("Rent update").Description(desc),
			huh.NewInput().Title("Effective date").Placeholder("YYYY-MM-DD").Value(&f.Date).Validate(validateDay),
			huh.NewInput().Title("Rent").Value(&f.Rent).Validate(validateAmount),
			huh.NewInput().Title("Tax").Value(&f.Tax).Validate(validateAmount),
		),
	)
}

func (m PropertiesModel) openContractForm(p *property.Property) (tea.Model, tea.Cmd) {
	f := &propertyFields{}
	if p.Contract != nil {
		f.ContractName = p.Contract.Name
		f.ContractURL = p.Contract.URL
	}

	return m.openForm(formContract, p, f,
		huh.NewGroup(
			huh.NewInput().Title("File name").Value(&f.ContractName),
			huh.NewInput().Title("Contract URL").Placeholder("https://...").
				Value(&f.ContractURL).Validate(required("url")),
		),
	)
}

func (m PropertiesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading properties...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == propertiesStateAccount {
		return lipgloss.NewStyle().Padding(1).Render(m.account.View())
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state == propertiesStateForm && m.form != nil {
		title := "New Property"
		if m.target != nil {
			title = m.target.Address
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PropertiesModel) refreshTable() {
	asOf := today()
	rows := make([]table.Row, 0, len(m.props))

	for _, p := range m.props {
		current, _ := p.CurrentValue(asOf)
		next := ledger.NextReviewDate(p.ContractStartDate, p.UpdateFrequencyMonths, p.ValueHistory)

		nextLabel := FormatDate(next)
		if p.ReviewDue(asOf) {
			nextLabel = "DUE"
		}

		rows = append(rows, table.Row{
			p.Address,
			p.Tenant.Name,
			FormatAmount(current.Rent),
			FormatAmount(current.Tax),
			FormatAmount(p.Statement(asOf).Debt),
			nextLabel,
		})
	}

	m.table.SetRows(rows)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}

		return nil
	}
}

func validatePositive(s string) error {
	d, err := parseAmount(s)
	if err != nil {
		return err
	}

	if !d.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}

	return nil
}

func validateMonths(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of months")
	}

	return nil
}

// Messages

type loadPropertiesMsg struct {
	props []*property.Property
	err   error
}

func (m PropertiesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		props, err := m.propertyService.List(ctx)

		return loadPropertiesMsg{props: props, err: err}
	}
}

type reviewLoadedMsg struct {
	review property.Review
	err    error
}

func (m PropertiesModel) loadReviewCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.propertyService.Review(ctx, id, today())

		return reviewLoadedMsg{review: r, err: err}
	}
}

type propertySaveMsg struct {
	status string
	err    error
}

func (m PropertiesModel) saveCmd() tea.Cmd {
	f := m.fields
	target := m.target
	kind := m.formKind

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch kind {
		case formNewProperty:
			rent, _ := parseAmount(f.Rent)
			tax, _ := parseAmount(f.Tax)
			start, _ := parseDay(f.Start)
			duration, _ := strconv.Atoi(strings.TrimSpace(f.Duration))
			frequency, _ := strconv.Atoi(strings.TrimSpace(f.Frequency))

			p, err := m.propertyService.Create(ctx, property.CreateParams{
				Address:                f.Address,
				Tenant:                 property.Tenant{Name: f.Tenant, Email: f.Email, Phone: f.Phone},
				Rent:                   rent,
				Tax:                    tax,
				ContractStartDate:      start,
				ContractDurationMonths: duration,
				UpdateFrequencyMonths:  frequency,
			})
			if err != nil {
				return propertySaveMsg{err: err}
			}

			return propertySaveMsg{status: fmt.Sprintf("Created %s", p.Address)}

		case formPayment:
			date, _ := parseDay(f.Date)
			amount, _ := parseAmount(f.Amount)

			_, _, err := m.propertyService.SavePayment(ctx, target.ID, property.PaymentParams{
				Date:               date,
				Amount:             amount,
				Notes:              f.Notes,
				AllocatedChargeIDs: f.Charges,
			})
			if err != nil {
				return propertySaveMsg{err: err}
			}

			return propertySaveMsg{status: fmt.Sprintf("Recorded payment of %s for %s", FormatAmount(amount), target.Address)}

		case formRentUpdate:
			date, _ := parseDay(f.Date)
			rent, _ := parseAmount(f.Rent)
			tax, _ := parseAmount(f.Tax)

			if _, err := m.propertyService.ApplyRentUpdate(ctx, target.ID, ledger.ValueRecord{Date: date, Rent: rent, Tax: tax}); err != nil {
				return propertySaveMsg{err: err}
			}

			return propertySaveMsg{status: fmt.Sprintf("Rent of %s set to %s from %s", target.Address, FormatAmount(rent), FormatDate(date))}

		case formContract:
			err := m.propertyService.AttachContract(ctx, target.ID, property.ContractFile{Name: f.ContractName, URL: f.ContractURL})
			if err != nil {
				return propertySaveMsg{err: err}
			}

			return propertySaveMsg{status: fmt.Sprintf("Contract attached to %s", target.Address)}
		}

		return propertySaveMsg{}
	}
}
