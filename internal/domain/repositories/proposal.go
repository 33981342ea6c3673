package repositories

import (
	"context"

	"tenderly/internal/domain/models"
)

// ProposalRepository stores proposals. There is no delete path.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error

	// GetByID returns domain.ErrNotFound ("Proposal not found") for unknown ids
	GetByID(ctx context.Context, id string) (*models.Proposal, error)

	// Update replaces content, status, version, tx id and timestamps
	Update(ctx context.Context, proposal *models.Proposal) error

	List(ctx context.Context) ([]models.Proposal, error)
}

// VersionRepository stores immutable content snapshots
type VersionRepository interface {
	Append(ctx context.Context, snapshot *models.VersionSnapshot) error

	// ListByProposal returns snapshots ordered by version ascending
	ListByProposal(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error)

	// Latest returns the highest version, or nil if the proposal has none
	Latest(ctx context.Context, proposalID string) (*models.VersionSnapshot, error)
}
