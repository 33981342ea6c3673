package handler

import (
	"log/slog"
	"net/http"

	"tenderly/internal/domain/services"
	"tenderly/internal/httputil"
)

// SubmissionHandler handles proposal submission and the attestation ledger
type SubmissionHandler struct {
	submissionService services.SubmissionService
	logger            *slog.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService services.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// SubmitProposal attests and locks a draft
// POST /api/submitProposal
// Returns 409 with the original txId on re-submission
func (h *SubmissionHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.submissionService.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to submit proposal")
		return
	}

	if user := httputil.GetUserID(r); user != "" {
		h.logger.InfoContext(r.Context(), "submission by authenticated user",
			"proposal_id", req.ProposalID,
			"user_id", user,
			"tx_id", result.TxID,
		)
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ListAttestations returns the attestation ledger, newest first
// GET /api/attestations
func (h *SubmissionHandler) ListAttestations(w http.ResponseWriter, r *http.Request) {
	attestations, err := h.submissionService.ListAttestations(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch attestations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, attestations)
}
