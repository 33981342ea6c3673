package handler

import (
	"log/slog"
	"net/http"

	"tenderly/internal/domain/services"
	"tenderly/internal/httputil"
)

// AssistHandler fronts the AI helpers. All endpoints take {"tenderId": ...}.
type AssistHandler struct {
	assistService services.AssistService
	logger        *slog.Logger
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(assistService services.AssistService, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{
		assistService: assistService,
		logger:        logger,
	}
}

// tenderID decodes and validates the shared request body
func (h *AssistHandler) tenderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req services.TenderRequest
	if !decode(w, r, &req) {
		return "", false
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, validationMessage(err))
		return "", false
	}
	return req.TenderID, true
}

// Summarize returns a short tender summary
// POST /api/summarize
func (h *AssistHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := h.tenderID(w, r)
	if !ok {
		return
	}

	summary, err := h.assistService.Summarize(r.Context(), tenderID)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to generate summary")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// CheckEligibility compares the tender requirements with the company profile
// POST /api/checkEligibility
func (h *AssistHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := h.tenderID(w, r)
	if !ok {
		return
	}

	items, err := h.assistService.CheckEligibility(r.Context(), tenderID)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to check eligibility")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"eligibility": items})
}

// GenerateProposal drafts a proposal and stores it
// POST /api/generateProposal
func (h *AssistHandler) GenerateProposal(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := h.tenderID(w, r)
	if !ok {
		return
	}

	proposal, err := h.assistService.GenerateDraft(r.Context(), tenderID)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to generate proposal")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"proposalId": proposal.ID})
}

// VoiceSummary returns an audio rendition of the summary
// POST /api/voiceSummary
func (h *AssistHandler) VoiceSummary(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := h.tenderID(w, r)
	if !ok {
		return
	}

	voice, err := h.assistService.VoiceSummary(r.Context(), tenderID)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to generate voice summary")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, voice)
}
