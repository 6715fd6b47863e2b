package inflation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/importer"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

type Handler struct {
	svc       *inflation.Service
	importSvc *importer.Service
}

func NewHandler(svc *inflation.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.save)
	r.Delete("/{month}", h.delete)
}

// ImportRoutes registers the file upload endpoint, which is mounted
// separately so it can be rate limited.
func (h *Handler) ImportRoutes(r chi.Router) {
	r.Post("/", h.importFile)
}

type recordDTO struct {
	Month     ledger.YearMonth `json:"month"`
	Rate      decimal.Decimal  `json:"rate"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

type saveRequest struct {
	Records []recordDTO `json:"records"`
}

type saveResponse struct {
	Saved int `json:"saved"`
}

type importResponse struct {
	Saved   int         `json:"saved"`
	Skipped int         `json:"skipped"`
	Records []recordDTO `json:"records"`
}

func toRecordDTO(r inflation.Record) recordDTO {
	dto := recordDTO{Month: r.Month, Rate: r.Rate}
	if !r.UpdatedAt.IsZero() {
		dto.UpdatedAt = new(r.UpdatedAt)
	}

	return dto
}

func toRecordDTOs(records []inflation.Record) []recordDTO {
	resp := make([]recordDTO, 0, len(records))
	for _, r := range records {
		resp = append(resp, toRecordDTO(r))
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRecordDTOs(records)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records := make([]inflation.Record, 0, len(req.Records))
	for _, rec := range req.Records {
		records = append(records, inflation.Record{Month: rec.Month, Rate: rec.Rate})
	}

	saved, err := h.svc.Save(r.Context(), records)
	if err != nil {
		if errors.Is(err, inflation.ErrInvalidRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(saveResponse{Saved: saved}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	month, err := ledger.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), month); err != nil {
		if errors.Is(err, inflation.ErrNotFound) {
			http.Error(w, "inflation rate not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := h.importSvc.Parse(importer.Source(r.FormValue("source")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(r.Context(), records)
	if err != nil {
		if errors.Is(err, inflation.ErrInvalidRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	slog.Info("inflation import", "parsed", len(records), "saved", result.Saved, "skipped", result.Skipped)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{
		Saved:   result.Saved,
		Skipped: result.Skipped,
		Records: toRecordDTOs(records),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
