package memory

import (
	"context"
	"sort"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

type proposalRepository struct {
	s *Store
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.proposals[proposal.ID]; exists {
		return &domain.ConflictError{
			Message:      "proposal already exists",
			ResourceType: "proposal",
			ResourceID:   proposal.ID,
		}
	}
	r.s.proposals[proposal.ID] = *proposal
	return nil
}

func (r *proposalRepository) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, domain.NewNotFound("Proposal")
	}
	return &p, nil
}

func (r *proposalRepository) Update(ctx context.Context, proposal *models.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.proposals[proposal.ID]; !ok {
		return domain.NewNotFound("Proposal")
	}
	r.s.proposals[proposal.ID] = *proposal
	return nil
}

func (r *proposalRepository) List(ctx context.Context) ([]models.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	proposals := make([]models.Proposal, 0, len(r.s.proposals))
	for _, p := range r.s.proposals {
		proposals = append(proposals, p)
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
	})
	return proposals, nil
}

type versionRepository struct {
	s *Store
}

func (r *versionRepository) Append(ctx context.Context, snapshot *models.VersionSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	history := r.s.versions[snapshot.ProposalID]
	if n := len(history); n > 0 && history[n-1].Version >= snapshot.Version {
		return &domain.ConflictError{
			Message:      "snapshot version must increase",
			ResourceType: "version",
			ResourceID:   snapshot.ProposalID,
		}
	}
	r.s.versions[snapshot.ProposalID] = append(history, *snapshot)
	return nil
}

func (r *versionRepository) ListByProposal(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	history := r.s.versions[proposalID]
	out := make([]models.VersionSnapshot, len(history))
	copy(out, history)
	return out, nil
}

func (r *versionRepository) Latest(ctx context.Context, proposalID string) (*models.VersionSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	history := r.s.versions[proposalID]
	if len(history) == 0 {
		return nil, nil
	}
	latest := history[len(history)-1]
	return &latest, nil
}
