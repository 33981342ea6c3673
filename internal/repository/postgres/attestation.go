package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
)

// PostgresAttestationRepository implements repositories.AttestationRepository
type PostgresAttestationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAttestationRepository creates a new PostgresAttestationRepository
func NewAttestationRepository(config *RepositoryConfig) repositories.AttestationRepository {
	return &PostgresAttestationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts an attestation. One attestation per proposal.
func (r *PostgresAttestationRepository) Create(ctx context.Context, a *models.Attestation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, proposal_id, tender_title, agency, submitted_at, tx_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Attestations)

	var proposalID *string
	if a.ProposalID != "" {
		proposalID = &a.ProposalID
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query,
		a.ID, proposalID, a.TenderTitle, a.Agency, a.SubmittedAt, a.TxID, a.Status,
	); err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "attestation already exists",
				ResourceType: "attestation",
				ResourceID:   a.ID,
			}
		}
		return fmt.Errorf("create attestation: %w", err)
	}

	return nil
}

// List returns attestations newest first
func (r *PostgresAttestationRepository) List(ctx context.Context) ([]models.Attestation, error) {
	query := fmt.Sprintf(`
		SELECT id, COALESCE(proposal_id, ''), tender_title, agency, submitted_at, tx_id, status
		FROM %s
		ORDER BY submitted_at DESC
	`, r.tables.Attestations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attestations: %w", err)
	}
	defer rows.Close()

	attestations := []models.Attestation{}
	for rows.Next() {
		var a models.Attestation
		if err := rows.Scan(&a.ID, &a.ProposalID, &a.TenderTitle, &a.Agency, &a.SubmittedAt, &a.TxID, &a.Status); err != nil {
			return nil, fmt.Errorf("scan attestation: %w", err)
		}
		attestations = append(attestations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attestations: %w", err)
	}

	return attestations, nil
}

// GetByProposalID returns the attestation of a proposal, or nil
func (r *PostgresAttestationRepository) GetByProposalID(ctx context.Context, proposalID string) (*models.Attestation, error) {
	query := fmt.Sprintf(`
		SELECT id, proposal_id, tender_title, agency, submitted_at, tx_id, status
		FROM %s
		WHERE proposal_id = $1
	`, r.tables.Attestations)

	var a models.Attestation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, proposalID).Scan(
		&a.ID, &a.ProposalID, &a.TenderTitle, &a.Agency, &a.SubmittedAt, &a.TxID, &a.Status,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attestation: %w", err)
	}

	return &a, nil
}
