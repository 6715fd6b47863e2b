package owner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
)

type Handler struct {
	svc       *owner.Service
	dashboard *dashboard.Service
}

func NewHandler(svc *owner.Service, dashboard *dashboard.Service) *Handler {
	return &Handler{svc: svc, dashboard: dashboard}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.save)
	r.Get("/distribution", h.distribution)
	r.Get("/advances/{month}", h.advances)
	r.Put("/advances/{month}", h.saveAdvances)
	r.Delete("/advances/{month}", h.resetAdvances)
	r.Get("/settlement/{month}", h.settlement)
}

type ownerDTO struct {
	ID         uuid.UUID       `json:"id,omitempty"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

type shareResponse struct {
	Owner  ownerDTO        `json:"owner"`
	Amount decimal.Decimal `json:"amount"`
}

type advanceDTO struct {
	OwnerID uuid.UUID       `json:"owner_id"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date,omitempty"`
}

type settlementLineResponse struct {
	Owner   ownerDTO        `json:"owner"`
	Share   decimal.Decimal `json:"share"`
	Advance decimal.Decimal `json:"advance"`
	Balance decimal.Decimal `json:"balance"`
}

type settlementResponse struct {
	Month     string                   `json:"month"`
	RentTotal decimal.Decimal          `json:"rent_total"`
	Lines     []settlementLineResponse `json:"lines"`
}

func toOwnerDTO(o owner.Owner) ownerDTO {
	return ownerDTO{ID: o.ID, Name: o.Name, Percentage: o.Percentage}
}

func toOwnerDTOs(owners []owner.Owner) []ownerDTO {
	resp := make([]ownerDTO, 0, len(owners))
	for _, o := range owners {
		resp = append(resp, toOwnerDTO(o))
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owners, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toOwnerDTOs(owners)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req []ownerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	owners := make([]owner.Owner, 0, len(req))
	for _, o := range req {
		owners = append(owners, owner.Owner{ID: o.ID, Name: o.Name, Percentage: o.Percentage})
	}

	saved, err := h.svc.Save(r.Context(), owners)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toOwnerDTOs(saved)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) distribution(w http.ResponseWriter, r *http.Request) {
	var income decimal.Decimal

	switch q := r.URL.Query(); {
	case q.Get("month") != "":
		month, err := ledger.ParseYearMonth(q.Get("month"))
		if err != nil {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		summary, err := h.dashboard.Summary(r.Context(), month, monthEnd(month))
		if err != nil {
			writeError(w, err)
			return
		}

		income = summary.MonthIncome
	default:
		v, err := decimal.NewFromString(q.Get("income"))
		if err != nil {
			http.Error(w, "month or income is required", http.StatusBadRequest)
			return
		}

		income = v
	}

	shares, err := h.svc.Distribution(r.Context(), income)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]shareResponse, 0, len(shares))
	for _, s := range shares {
		resp = append(resp, shareResponse{Owner: toOwnerDTO(s.Owner), Amount: s.Amount})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) advances(w http.ResponseWriter, r *http.Request) {
	month, err := ledger.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	advances, err := h.svc.Advances(r.Context(), month)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]advanceDTO, 0, len(advances))
	for _, a := range advances {
		dto := advanceDTO{OwnerID: a.OwnerID, Amount: a.Amount}
		if !a.Date.IsZero() {
			dto.Date = a.Date.Format(time.DateOnly)
		}

		resp = append(resp, dto)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) saveAdvances(w http.ResponseWriter, r *http.Request) {
	month, err := ledger.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	var req []advanceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	advances := make([]owner.Advance, 0, len(req))

	for _, a := range req {
		adv := owner.Advance{OwnerID: a.OwnerID, Amount: a.Amount}

		if a.Date != "" {
			d, err := time.Parse(time.DateOnly, a.Date)
			if err != nil {
				http.Error(w, "invalid date", http.StatusBadRequest)
				return
			}

			adv.Date = ledger.Day(d)
		}

		advances = append(advances, adv)
	}

	if err := h.svc.SaveAdvances(r.Context(), month, advances); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetAdvances(w http.ResponseWriter, r *http.Request) {
	month, err := ledger.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	if err := h.svc.ResetAdvances(r.Context(), month); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) settlement(w http.ResponseWriter, r *http.Request) {
	month, err := ledger.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	rentTotal, err := h.dashboard.MonthlyRent(r.Context(), month)
	if err != nil {
		writeError(w, err)
		return
	}

	st, err := h.svc.Settlement(r.Context(), month, rentTotal)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := settlementResponse{
		Month:     st.Month,
		RentTotal: st.RentTotal,
		Lines:     make([]settlementLineResponse, 0, len(st.Lines)),
	}

	for _, l := range st.Lines {
		resp.Lines = append(resp.Lines, settlementLineResponse{
			Owner:   toOwnerDTO(l.Owner),
			Share:   l.Share,
			Advance: l.Advance,
			Balance: l.Balance,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func monthEnd(month ledger.YearMonth) time.Time {
	return ledger.AddMonths(month.Start(), 1).AddDate(0, 0, -1)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, owner.ErrNotFound):
		http.Error(w, "owner not found", http.StatusNotFound)
	case errors.Is(err, owner.ErrInvalidOwner),
		errors.Is(err, owner.ErrInvalidShares),
		errors.Is(err, owner.ErrInvalidAdvance):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("owner request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
