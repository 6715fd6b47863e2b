package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

type tenantDTO struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type contractDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type valueRecordResponse struct {
	Date string          `json:"date"`
	Rent decimal.Decimal `json:"rent"`
	Tax  decimal.Decimal `json:"tax"`
}

type paymentResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Date               string          `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	Notes              string          `json:"notes,omitempty"`
	AllocatedChargeIDs []string        `json:"allocated_charge_ids"`
}

type propertyResponse struct {
	ID                     uuid.UUID             `json:"id"`
	Address                string                `json:"address"`
	Tenant                 tenantDTO             `json:"tenant"`
	Rent                   decimal.Decimal       `json:"rent"`
	Tax                    decimal.Decimal       `json:"tax"`
	ContractStartDate      string                `json:"contract_start_date"`
	ContractDurationMonths int                   `json:"contract_duration_months"`
	UpdateFrequencyMonths  int                   `json:"update_frequency_months"`
	Contract               *contractDTO          `json:"contract,omitempty"`
	ValueHistory           []valueRecordResponse `json:"value_history"`
	Payments               []paymentResponse     `json:"payments"`
	CreatedAt              time.Time             `json:"created_at"`
	UpdatedAt              *time.Time            `json:"updated_at,omitempty"`
}

type chargeResponse struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Kind        ledger.ChargeKind `json:"kind"`
	Amount      decimal.Decimal   `json:"amount"`
}

type entryResponse struct {
	Date     string           `json:"date"`
	Detail   string           `json:"detail"`
	Kind     ledger.EntryKind `json:"kind"`
	SourceID string           `json:"source_id"`
	Debit    decimal.Decimal  `json:"debit"`
	Credit   decimal.Decimal  `json:"credit"`
	Balance  decimal.Decimal  `json:"balance"`
}

type statementResponse struct {
	PropertyID uuid.UUID        `json:"property_id"`
	AsOf       string           `json:"as_of"`
	Entries    []entryResponse  `json:"entries"`
	Unpaid     []chargeResponse `json:"unpaid"`
	Debt       decimal.Decimal  `json:"debt"`
	Balance    decimal.Decimal  `json:"balance"`
}

type contractStatusResponse struct {
	End        string `json:"end"`
	MonthsLeft int    `json:"months_left"`
	Expired    bool   `json:"expired"`
	Warn       bool   `json:"warn"`
}

type suggestionResponse struct {
	Rent   decimal.Decimal    `json:"rent"`
	Tax    decimal.Decimal    `json:"tax"`
	Factor decimal.Decimal    `json:"factor"`
	Months []ledger.YearMonth `json:"months"`
}

type reviewResponse struct {
	PropertyID uuid.UUID               `json:"property_id"`
	Due        bool                    `json:"due"`
	LastUpdate string                  `json:"last_update"`
	NextReview string                  `json:"next_review,omitempty"`
	Latest     valueRecordResponse     `json:"latest"`
	Suggestion suggestionResponse      `json:"suggestion"`
	Contract   *contractStatusResponse `json:"contract,omitempty"`
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

func toValueRecordResponse(v ledger.ValueRecord) valueRecordResponse {
	return valueRecordResponse{Date: formatDay(v.Date), Rent: v.Rent, Tax: v.Tax}
}

func toPaymentResponse(p ledger.Payment) paymentResponse {
	ids := p.AllocatedChargeIDs
	if ids == nil {
		ids = []string{}
	}

	return paymentResponse{
		ID:                 p.ID,
		Date:               formatDay(p.Date),
		Amount:             p.Amount,
		Notes:              p.Notes,
		AllocatedChargeIDs: ids,
	}
}

func toResponse(p *property.Property) propertyResponse {
	resp := propertyResponse{
		ID:                     p.ID,
		Address:                p.Address,
		Tenant:                 tenantDTO{Name: p.Tenant.Name, Email: p.Tenant.Email, Phone: p.Tenant.Phone},
		Rent:                   p.Rent,
		Tax:                    p.Tax,
		ContractStartDate:      formatDay(p.ContractStartDate),
		ContractDurationMonths: p.ContractDurationMonths,
		UpdateFrequencyMonths:  p.UpdateFrequencyMonths,
		ValueHistory:           make([]valueRecordResponse, 0, len(p.ValueHistory)),
		Payments:               make([]paymentResponse, 0, len(p.Payments)),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}

	if p.Contract != nil {
		resp.Contract = &contractDTO{Name: p.Contract.Name, URL: p.Contract.URL}
	}

	for _, v := range ledger.SortHistory(p.ValueHistory) {
		resp.ValueHistory = append(resp.ValueHistory, toValueRecordResponse(v))
	}

	for _, pay := range p.Payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(pay))
	}

	return resp
}

func toResponseList(props []*property.Property) []propertyResponse {
	resp := make([]propertyResponse, len(props))
	for i, p := range props {
		resp[i] = toResponse(p)
	}

	return resp
}

func toChargeResponse(c ledger.Charge) chargeResponse {
	return chargeResponse{
		ID:          c.ID,
		Date:        formatDay(c.Date),
		Description: c.Description,
		Kind:        c.Kind,
		Amount:      c.Amount,
	}
}

func toStatementResponse(id uuid.UUID, st ledger.Statement) statementResponse {
	resp := statementResponse{
		PropertyID: id,
		AsOf:       formatDay(st.AsOf),
		Entries:    make([]entryResponse, 0, len(st.Entries)),
		Unpaid:     make([]chargeResponse, 0, len(st.Unpaid)),
		Debt:       st.Debt,
		Balance:    st.Balance,
	}

	for _, e := range st.Entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Date:     formatDay(e.Date),
			Detail:   e.Detail,
			Kind:     e.Kind,
			SourceID: e.SourceID,
			Debit:    e.Debit,
			Credit:   e.Credit,
			Balance:  e.Balance,
		})
	}

	for _, c := range st.Unpaid {
		resp.Unpaid = append(resp.Unpaid, toChargeResponse(c))
	}

	return resp
}

func toReviewResponse(id uuid.UUID, r property.Review) reviewResponse {
	resp := reviewResponse{
		PropertyID: id,
		Due:        r.Due,
		LastUpdate: formatDay(r.LastUpdate),
		NextReview: formatDay(r.NextReview),
		Latest:     toValueRecordResponse(r.Latest),
		Suggestion: suggestionResponse{
			Rent:   r.Suggestion.Rent,
			Tax:    r.Suggestion.Tax,
			Factor: r.Suggestion.Factor,
			Months: r.Suggestion.Months,
		},
	}

	if resp.Suggestion.Months == nil {
		resp.Suggestion.Months = []ledger.YearMonth{}
	}

	if r.Contract != nil {
		resp.Contract = &contractStatusResponse{
			End:        formatDay(r.Contract.End),
			MonthsLeft: r.Contract.MonthsLeft,
			Expired:    r.Contract.Expired,
			Warn:       r.Contract.Warn,
		}
	}

	return resp
}
