package services

import (
	"context"

	"tenderly/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ProposalService owns the proposal content lifecycle: creation, draft saves
// and the snapshot history that every content-changing save appends to.
type ProposalService interface {
	CreateProposal(ctx context.Context, req *CreateProposalRequest) (*models.Proposal, error)
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)

	// SaveDraft replaces the content of a draft proposal.
	// Submitted proposals are rejected with a domain.ConflictError.
	SaveDraft(ctx context.Context, req *SaveDraftRequest) (*models.Proposal, error)

	// ListVersions returns the snapshots of a proposal, oldest first
	ListVersions(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error)
}

// CreateProposalRequest starts a proposal for a tender
type CreateProposalRequest struct {
	TenderID string `json:"tenderId"`
	Content  string `json:"content"`
}

// Validate implements validation.Validatable
func (r CreateProposalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TenderID, validation.Required.Error("tenderId is required")),
	)
}

// SaveDraftRequest is the autosave/manual-save payload.
// Content is a pointer so that an explicit empty body can be saved.
type SaveDraftRequest struct {
	ProposalID  string  `json:"proposalId"`
	Content     *string `json:"content"`
	BaseVersion *int    `json:"baseVersion,omitempty"` // Optional optimistic concurrency check
}

const errSaveDraftFields = "proposalId and content are required"

// Validate implements validation.Validatable
func (r SaveDraftRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProposalID, validation.Required.Error(errSaveDraftFields)),
		validation.Field(&r.Content, validation.NotNil.Error(errSaveDraftFields)),
		validation.Field(&r.BaseVersion, validation.Min(1).Error("baseVersion must be at least 1")),
	)
}
