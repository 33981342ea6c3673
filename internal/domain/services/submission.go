package services

import (
	"context"

	"tenderly/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SubmissionService is the one-way gate from draft to submitted
type SubmissionService interface {
	// Submit attests a draft proposal and marks it submitted.
	// A second submission of the same proposal fails with a domain.ConflictError
	// carrying the original transaction id.
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)

	ListAttestations(ctx context.Context) ([]models.Attestation, error)
}

// SubmitRequest identifies the proposal to submit
type SubmitRequest struct {
	ProposalID string `json:"proposalId"`
}

// Validate implements validation.Validatable
func (r SubmitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProposalID, validation.Required.Error("proposalId is required")),
	)
}

// SubmitResult is returned to the caller after a successful submission
type SubmitResult struct {
	TxID   string                `json:"txId"`
	Status models.ProposalStatus `json:"status"`
}
