package memory

import (
	"context"
	"sort"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

type attestationRepository struct {
	s *Store
}

func (r *attestationRepository) Create(ctx context.Context, attestation *models.Attestation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.attestations {
		if a.ID == attestation.ID || (attestation.ProposalID != "" && a.ProposalID == attestation.ProposalID) {
			return &domain.ConflictError{
				Message:      "attestation already exists",
				ResourceType: "attestation",
				ResourceID:   a.ID,
			}
		}
	}
	r.s.attestations = append(r.s.attestations, *attestation)
	return nil
}

func (r *attestationRepository) List(ctx context.Context) ([]models.Attestation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Attestation, len(r.s.attestations))
	copy(out, r.s.attestations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *attestationRepository) GetByProposalID(ctx context.Context, proposalID string) (*models.Attestation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.attestations {
		if a.ProposalID == proposalID {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}
