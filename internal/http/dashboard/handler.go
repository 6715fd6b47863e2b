package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

type Handler struct {
	svc *dashboard.Service
	now func() time.Time
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/report", h.report)
}

type incomeResponse struct {
	Month  ledger.YearMonth `json:"month"`
	Amount decimal.Decimal  `json:"amount"`
}

type shareResponse struct {
	OwnerID    uuid.UUID       `json:"owner_id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

type dueReviewResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	Address    string    `json:"address"`
	LastUpdate string    `json:"last_update"`
	NextReview string    `json:"next_review"`
}

type summaryResponse struct {
	Month         ledger.YearMonth    `json:"month"`
	AsOf          string              `json:"as_of"`
	PropertyCount int                 `json:"property_count"`
	IncomeByMonth []incomeResponse    `json:"income_by_month"`
	MonthIncome   decimal.Decimal     `json:"month_income"`
	TotalDebt     decimal.Decimal     `json:"total_debt"`
	TotalAssets   decimal.Decimal     `json:"total_assets"`
	Distribution  []shareResponse     `json:"distribution"`
	DueReviews    []dueReviewResponse `json:"due_reviews"`
}

func toSummaryResponse(s dashboard.Summary) summaryResponse {
	resp := summaryResponse{
		Month:         s.Month,
		AsOf:          s.AsOf.Format(time.DateOnly),
		PropertyCount: s.PropertyCount,
		IncomeByMonth: make([]incomeResponse, 0, len(s.IncomeByMonth)),
		MonthIncome:   s.MonthIncome,
		TotalDebt:     s.TotalDebt,
		TotalAssets:   s.TotalAssets,
		Distribution:  make([]shareResponse, 0, len(s.Distribution)),
		DueReviews:    make([]dueReviewResponse, 0, len(s.DueReviews)),
	}

	for _, m := range s.IncomeByMonth {
		resp.IncomeByMonth = append(resp.IncomeByMonth, incomeResponse{Month: m.Month, Amount: m.Amount})
	}

	for _, sh := range s.Distribution {
		resp.Distribution = append(resp.Distribution, shareResponse{
			OwnerID:    sh.Owner.ID,
			Name:       sh.Owner.Name,
			Percentage: sh.Owner.Percentage,
			Amount:     sh.Amount,
		})
	}

	for _, d := range s.DueReviews {
		resp.DueReviews = append(resp.DueReviews, dueReviewResponse{
			PropertyID: d.PropertyID,
			Address:    d.Address,
			LastUpdate: d.LastUpdate.Format(time.DateOnly),
			NextReview: d.NextReview.Format(time.DateOnly),
		})
	}

	return resp
}

// params reads ?month=YYYY-MM and ?as_of=YYYY-MM-DD, defaulting both to today.
func (h *Handler) params(r *http.Request) (ledger.YearMonth, time.Time, bool) {
	asOf := ledger.Day(h.now())

	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return "", time.Time{}, false
		}

		asOf = ledger.Day(t)
	}

	month := ledger.MonthOf(asOf)

	if s := r.URL.Query().Get("month"); s != "" {
		ym, err := ledger.ParseYearMonth(s)
		if err != nil {
			return "", time.Time{}, false
		}

		month = ym
	}

	return month, asOf, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	month, asOf, ok := h.params(r)
	if !ok {
		http.Error(w, "invalid month or as_of", http.StatusBadRequest)
		return
	}

	s, err := h.svc.Summary(r.Context(), month, asOf)
	if err != nil {
		slog.Error("building dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(s)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	month, asOf, ok := h.params(r)
	if !ok {
		http.Error(w, "invalid month or as_of", http.StatusBadRequest)
		return
	}

	s, err := h.svc.Summary(r.Context(), month, asOf)
	if err != nil {
		slog.Error("building dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := export.MonthlyReport(w, s); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
