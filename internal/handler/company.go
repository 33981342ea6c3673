package handler

import (
	"log/slog"
	"net/http"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/services"
	"tenderly/internal/httputil"
)

// CompanyHandler handles the company profile
type CompanyHandler struct {
	companyService services.CompanyService
	logger         *slog.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService services.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// GetProfile returns the company profile
// GET /api/company
func (h *CompanyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.companyService.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch company profile")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile merges the fields present in the body
// PUT /api/company
func (h *CompanyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCompanyRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := h.companyService.UpdateProfile(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to update company profile")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}
