package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

type Handler struct {
	svc *property.Service
	now func() time.Time
}

func NewHandler(svc *property.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/reviews", h.dueForReview)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/payments", h.savePayment)
	r.Put("/{id}/payments/{paymentID}", h.savePayment)
	r.Post("/{id}/rent", h.applyRentUpdate)
	r.Patch("/{id}/contract", h.attachContract)
	r.Get("/{id}/statement", h.statement)
	r.Get("/{id}/statement.csv", h.statementCSV)
	r.Get("/{id}/review", h.review)
}

type createPropertyRequest struct {
	Address                string          `json:"address"`
	Tenant                 tenantDTO       `json:"tenant"`
	Rent                   decimal.Decimal `json:"rent"`
	Tax                    decimal.Decimal `json:"tax"`
	ContractStartDate      string          `json:"contract_start_date"`
	ContractDurationMonths int             `json:"contract_duration_months"`
	UpdateFrequencyMonths  int             `json:"update_frequency_months"`
	Contract               *contractDTO    `json:"contract,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := parseDay(req.ContractStartDate)
	if err != nil {
		http.Error(w, "invalid contract_start_date", http.StatusBadRequest)
		return
	}

	params := property.CreateParams{
		Address:                req.Address,
		Tenant:                 property.Tenant{Name: req.Tenant.Name, Email: req.Tenant.Email, Phone: req.Tenant.Phone},
		Rent:                   req.Rent,
		Tax:                    req.Tax,
		ContractStartDate:      start,
		ContractDurationMonths: req.ContractDurationMonths,
		UpdateFrequencyMonths:  req.UpdateFrequencyMonths,
	}
	if req.Contract != nil {
		params.Contract = &property.ContractFile{Name: req.Contract.Name, URL: req.Contract.URL}
	}

	p, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(props)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updatePropertyRequest struct {
	Address                *string    `json:"address,omitempty"`
	Tenant                 *tenantDTO `json:"tenant,omitempty"`
	ContractStartDate      *string    `json:"contract_start_date,omitempty"`
	ContractDurationMonths *int       `json:"contract_duration_months,omitempty"`
	UpdateFrequencyMonths  *int       `json:"update_frequency_months,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Address != nil {
		p.Address = *req.Address
	}

	if req.Tenant != nil {
		p.Tenant = property.Tenant{Name: req.Tenant.Name, Email: req.Tenant.Email, Phone: req.Tenant.Phone}
	}

	if req.ContractStartDate != nil {
		start, err := parseDay(*req.ContractStartDate)
		if err != nil {
			http.Error(w, "invalid contract_start_date", http.StatusBadRequest)
			return
		}

		p.ContractStartDate = start
	}

	if req.ContractDurationMonths != nil {
		p.ContractDurationMonths = *req.ContractDurationMonths
	}

	if req.UpdateFrequencyMonths != nil {
		p.UpdateFrequencyMonths = *req.UpdateFrequencyMonths
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type paymentRequest struct {
	Date               string          `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	Notes              string          `json:"notes"`
	AllocatedChargeIDs []string        `json:"allocated_charge_ids"`
}

func (h *Handler) savePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var paymentID *uuid.UUID

	if s := chi.URLParam(r, "paymentID"); s != "" {
		pid, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid payment id", http.StatusBadRequest)
			return
		}

		paymentID = &pid
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDay(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	payment, created, err := h.svc.SavePayment(r.Context(), id, property.PaymentParams{
		ID:                 paymentID,
		Date:               date,
		Amount:             req.Amount,
		Notes:              req.Notes,
		AllocatedChargeIDs: req.AllocatedChargeIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if created {
		w.WriteHeader(http.StatusCreated)
	}

	if err := json.NewEncoder(w).Encode(toPaymentResponse(payment)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type rentUpdateRequest struct {
	Date string          `json:"date"`
	Rent decimal.Decimal `json:"rent"`
	Tax  decimal.Decimal `json:"tax"`
}

func (h *Handler) applyRentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req rentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDay(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	p, err := h.svc.ApplyRentUpdate(r.Context(), id, ledger.ValueRecord{Date: date, Rent: req.Rent, Tax: req.Tax})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) attachContract(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req contractDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.AttachContract(r.Context(), id, property.ContractFile{Name: req.Name, URL: req.URL}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	asOf, err := h.asOf(r)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	_, st, err := h.svc.Statement(r.Context(), id, asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toStatementResponse(id, st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) statementCSV(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	asOf, err := h.asOf(r)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	p, st, err := h.svc.Statement(r.Context(), id, asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.StatementFilename(p.Address, asOf)))

	if err := export.StatementCSV(w, st); err != nil {
		slog.Error("failed to write statement", "property_id", id, "error", err)
	}
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	asOf, err := h.asOf(r)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	rev, err := h.svc.Review(r.Context(), id, asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReviewResponse(id, rev)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) dueForReview(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	props, err := h.svc.DueForReview(r.Context(), asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(props)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("as_of")
	if s == "" {
		return ledger.Day(h.now()), nil
	}

	return parseDay(s)
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}

	return ledger.Day(t), nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, property.ErrNotFound):
		http.Error(w, "property not found", http.StatusNotFound)
	case errors.Is(err, property.ErrInvalidProperty),
		errors.Is(err, property.ErrInvalidPayment),
		errors.Is(err, property.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("property request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
