package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tenderly/internal/attestation"
	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/domain/services"
	"tenderly/internal/metrics"
)

// AttestationStatusConfirmed is recorded for every attestation created by Submit
const AttestationStatusConfirmed = "Confirmed"

// submissionService implements the SubmissionService interface
type submissionService struct {
	proposalRepo    repositories.ProposalRepository
	tenderRepo      repositories.TenderRepository
	attestationRepo repositories.AttestationRepository
	txManager       repositories.TransactionManager
	issuer          attestation.Issuer
	logger          *slog.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	proposalRepo repositories.ProposalRepository,
	tenderRepo repositories.TenderRepository,
	attestationRepo repositories.AttestationRepository,
	txManager repositories.TransactionManager,
	issuer attestation.Issuer,
	logger *slog.Logger,
	m *metrics.Metrics,
) services.SubmissionService {
	return &submissionService{
		proposalRepo:    proposalRepo,
		tenderRepo:      tenderRepo,
		attestationRepo: attestationRepo,
		txManager:       txManager,
		issuer:          issuer,
		metrics:         m,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Submit moves a draft to submitted and records its attestation in one transaction
func (s *submissionService) Submit(ctx context.Context, req *services.SubmitRequest) (*services.SubmitResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var record *models.Attestation
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		proposal, err := s.proposalRepo.GetByID(ctx, req.ProposalID)
		if err != nil {
			return err
		}

		existing, err := s.attestationRepo.GetByProposalID(ctx, proposal.ID)
		if err != nil {
			return err
		}
		if existing != nil || proposal.IsSubmitted() {
			return alreadySubmitted(proposal, existing)
		}

		// Agency comes from the tender; the title is the snapshot taken at creation
		agency := ""
		tender, err := s.tenderRepo.GetByID(ctx, proposal.TenderID)
		switch {
		case err == nil:
			agency = tender.Agency
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("tender missing for submitted proposal", "proposal_id", proposal.ID, "tender_id", proposal.TenderID)
		default:
			return err
		}

		txID, err := s.issuer.Issue(ctx, proposal.ID)
		if err != nil {
			return &domain.UpstreamError{Service: "attestation", Err: err}
		}

		now := s.now()
		proposal.Status = models.ProposalStatusSubmitted
		proposal.TxID = &txID
		proposal.SubmittedAt = &now
		proposal.UpdatedAt = now
		if err := s.proposalRepo.Update(ctx, proposal); err != nil {
			return err
		}

		record = &models.Attestation{
			ID:          uuid.NewString(),
			ProposalID:  proposal.ID,
			TenderTitle: proposal.TenderTitle,
			Agency:      agency,
			SubmittedAt: now,
			TxID:        txID,
			Status:      AttestationStatusConfirmed,
		}
		return s.attestationRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}

	s.logger.Info("proposal submitted",
		"proposal_id", record.ProposalID,
		"tx_id", record.TxID,
		"attestation_id", record.ID,
	)
	s.metrics.Submitted()

	return &services.SubmitResult{
		TxID:   record.TxID,
		Status: models.ProposalStatusSubmitted,
	}, nil
}

func (s *submissionService) ListAttestations(ctx context.Context) ([]models.Attestation, error) {
	return s.attestationRepo.List(ctx)
}

func alreadySubmitted(p *models.Proposal, existing *models.Attestation) error {
	txID := ""
	switch {
	case existing != nil:
		txID = existing.TxID
	case p.TxID != nil:
		txID = *p.TxID
	}
	return &domain.ConflictError{
		Message:      "proposal already submitted",
		ResourceType: "proposal",
		ResourceID:   p.ID,
		Extra:        map[string]any{"txId": txID},
	}
}
