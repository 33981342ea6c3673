package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tenderly/internal/config"
	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/domain/services"
	"tenderly/internal/metrics"
)

// proposalService implements the ProposalService interface
type proposalService struct {
	proposalRepo repositories.ProposalRepository
	versionRepo  repositories.VersionRepository
	tenderRepo   repositories.TenderRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewProposalService creates a new proposal service
func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	versionRepo repositories.VersionRepository,
	tenderRepo repositories.TenderRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
	m *metrics.Metrics,
) services.ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		versionRepo:  versionRepo,
		tenderRepo:   tenderRepo,
		txManager:    txManager,
		metrics:      m,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateProposal creates a draft at version 1 together with its first snapshot
func (s *proposalService) CreateProposal(ctx context.Context, req *services.CreateProposalRequest) (*models.Proposal, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if len(req.Content) > config.MaxProposalContentLength {
		return nil, domain.NewValidation("content exceeds %d bytes", config.MaxProposalContentLength)
	}

	tender, err := s.tenderRepo.GetByID(ctx, req.TenderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	proposal := &models.Proposal{
		ID:          uuid.NewString(),
		TenderID:    tender.ID,
		TenderTitle: tender.Title,
		Content:     req.Content,
		Status:      models.ProposalStatusDraft,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.proposalRepo.Create(ctx, proposal); err != nil {
			return err
		}
		return s.versionRepo.Append(ctx, newSnapshot(proposal, now))
	})
	if err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	s.logger.Info("proposal created",
		"id", proposal.ID,
		"tender_id", proposal.TenderID,
		"content_length", len(proposal.Content),
	)

	return proposal, nil
}

func (s *proposalService) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	return s.proposalRepo.GetByID(ctx, id)
}

// SaveDraft replaces the content of a draft. A content change bumps the
// version and appends a snapshot; identical content only touches updatedAt.
func (s *proposalService) SaveDraft(ctx context.Context, req *services.SaveDraftRequest) (*models.Proposal, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	content := *req.Content
	if len(content) > config.MaxProposalContentLength {
		return nil, domain.NewValidation("content exceeds %d bytes", config.MaxProposalContentLength)
	}

	var saved *models.Proposal
	var changed bool
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		proposal, err := s.proposalRepo.GetByID(ctx, req.ProposalID)
		if err != nil {
			return err
		}

		if proposal.IsSubmitted() {
			extra := map[string]any{}
			if proposal.TxID != nil {
				extra["txId"] = *proposal.TxID
			}
			return &domain.ConflictError{
				Message:      "proposal already submitted",
				ResourceType: "proposal",
				ResourceID:   proposal.ID,
				Extra:        extra,
			}
		}

		if req.BaseVersion != nil && *req.BaseVersion != proposal.Version {
			return &domain.ConflictError{
				Message:      "proposal was modified by another save",
				ResourceType: "proposal",
				ResourceID:   proposal.ID,
				Extra:        map[string]any{"version": proposal.Version},
			}
		}

		latest, err := s.versionRepo.Latest(ctx, proposal.ID)
		if err != nil {
			return err
		}

		now := s.now()
		hash := models.HashContent(content)
		switch {
		case latest == nil:
			changed = true
		case latest.ContentHash != hash:
			changed = true
			proposal.Version = latest.Version + 1
		}

		proposal.Content = content
		proposal.UpdatedAt = now

		if changed {
			if err := s.versionRepo.Append(ctx, newSnapshot(proposal, now)); err != nil {
				return err
			}
		}
		if err := s.proposalRepo.Update(ctx, proposal); err != nil {
			return err
		}

		saved = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft saved",
		"id", saved.ID,
		"version", saved.Version,
		"content_changed", changed,
	)
	s.metrics.DraftSaved(changed)

	return saved, nil
}

// ListVersions returns the snapshots of an existing proposal, oldest first
func (s *proposalService) ListVersions(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error) {
	if _, err := s.proposalRepo.GetByID(ctx, proposalID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByProposal(ctx, proposalID)
}

func newSnapshot(p *models.Proposal, at time.Time) *models.VersionSnapshot {
	return &models.VersionSnapshot{
		ID:          uuid.NewString(),
		ProposalID:  p.ID,
		Version:     p.Version,
		Content:     p.Content,
		ContentHash: models.HashContent(p.Content),
		CreatedAt:   at,
	}
}
