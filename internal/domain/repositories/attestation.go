package repositories

import (
	"context"
	"time"

	"tenderly/internal/domain/models"
)

// AttestationRepository stores submission attestations (append-only)
type AttestationRepository interface {
	Create(ctx context.Context, attestation *models.Attestation) error

	// List returns attestations newest first
	List(ctx context.Context) ([]models.Attestation, error)

	// GetByProposalID returns nil when the proposal was never attested
	GetByProposalID(ctx context.Context, proposalID string) (*models.Attestation, error)
}

// SummaryCache caches generated tender summaries.
// A miss is reported as ("", false, nil).
type SummaryCache interface {
	Get(ctx context.Context, tenderID string) (string, bool, error)
	Set(ctx context.Context, tenderID, summary string, ttl time.Duration) error
}
