package services

import (
	"context"

	"tenderly/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AssistService fronts the AI helpers. Every operation works offline with
// deterministic canned output when no text-generation provider is configured.
type AssistService interface {
	Summarize(ctx context.Context, tenderID string) (string, error)
	CheckEligibility(ctx context.Context, tenderID string) ([]models.EligibilityItem, error)

	// GenerateDraft writes a proposal body for the tender and stores it as a new draft
	GenerateDraft(ctx context.Context, tenderID string) (*models.Proposal, error)

	VoiceSummary(ctx context.Context, tenderID string) (*models.VoiceSummary, error)
}

// TenderRequest is the body shared by all assist endpoints
type TenderRequest struct {
	TenderID string `json:"tenderId"`
}

// Validate implements validation.Validatable
func (r TenderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TenderID, validation.Required.Error("tenderId is required")),
	)
}
