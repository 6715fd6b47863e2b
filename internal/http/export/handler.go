package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

type Handler struct {
	svc       *export.Service
	dashboard *dashboard.Service
	now       func() time.Time
}

func NewHandler(svc *export.Service, dashboard *dashboard.Service) *Handler {
	return &Handler{svc: svc, dashboard: dashboard, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

type itemResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	Address    string    `json:"address"`
	Statement  string    `json:"statement"`
	Contract   string    `json:"contract,omitempty"`
}

type exportMetadataResponse struct {
	AsOf  string         `json:"as_of"`
	Items []itemResponse `json:"items"`
}

func toItemResponse(item export.Item) itemResponse {
	resp := itemResponse{
		PropertyID: item.Property.ID,
		Address:    item.Property.Address,
		Statement:  filepath.Base(item.StatementPath),
	}

	if item.ContractPath != "" {
		resp.Contract = filepath.Base(item.ContractPath)
	}

	return resp
}

func (h *Handler) decodeAsOf(r *http.Request) (time.Time, error) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		return time.Time{}, err
	}

	if req.AsOf == "" {
		return ledger.Day(h.now()), nil
	}

	t, err := time.Parse(time.DateOnly, req.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of: %w", err)
	}

	return ledger.Day(t), nil
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.decodeAsOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "rentbook-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Archive(r.Context(), asOf, tmpDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := exportMetadataResponse{
		AsOf:  asOf.Format(time.DateOnly),
		Items: make([]itemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.decodeAsOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "rentbook-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	if _, err := h.svc.Archive(r.Context(), asOf, tmpDir); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	month := ledger.MonthOf(asOf)

	summary, err := h.dashboard.Summary(r.Context(), month, asOf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report, err := os.Create(filepath.Join(tmpDir, fmt.Sprintf("resumen_%s.txt", month)))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	err = export.MonthlyReport(report, summary)
	report.Close()

	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"rentbook_%s.zip\"", asOf.Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
