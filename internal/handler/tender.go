package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenderly/internal/domain/services"
	"tenderly/internal/httputil"
)

// TenderHandler serves tender reference data
type TenderHandler struct {
	tenderService services.TenderService
	logger        *slog.Logger
}

// NewTenderHandler creates a new tender handler
func NewTenderHandler(tenderService services.TenderService, logger *slog.Logger) *TenderHandler {
	return &TenderHandler{
		tenderService: tenderService,
		logger:        logger,
	}
}

// ListTenders returns every tender
// GET /api/tenders
func (h *TenderHandler) ListTenders(w http.ResponseWriter, r *http.Request) {
	tenders, err := h.tenderService.ListTenders(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch tenders")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tenders)
}

// GetTender returns one tender
// GET /api/tenders/{id}
func (h *TenderHandler) GetTender(w http.ResponseWriter, r *http.Request) {
	tender, err := h.tenderService.GetTender(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch tender")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tender)
}
