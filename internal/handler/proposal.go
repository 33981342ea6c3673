package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenderly/internal/domain/services"
	"tenderly/internal/httputil"
)

// ProposalHandler handles proposal drafts and their history
type ProposalHandler struct {
	proposalService services.ProposalService
	logger          *slog.Logger
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalService services.ProposalService, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		logger:          logger,
	}
}

// CreateProposal starts an empty (or pre-filled) draft for a tender
// POST /api/proposals
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProposalRequest
	if !decode(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.CreateProposal(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to create proposal")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"proposalId": proposal.ID})
}

// GetProposal returns a proposal
// GET /api/proposals/{id}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := h.proposalService.GetProposal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch proposal")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proposal)
}

// SaveDraft replaces a draft's content
// POST /api/saveDraft
// Returns 409 if the proposal is submitted or baseVersion is stale
func (h *ProposalHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req services.SaveDraftRequest
	if !decode(w, r, &req) {
		return
	}

	proposal, err := h.proposalService.SaveDraft(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to save draft")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"version": proposal.Version,
	})
}

// ListVersions returns the proposal's snapshots, oldest first
// GET /api/versions/{id}
func (h *ProposalHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.proposalService.ListVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch versions")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}
