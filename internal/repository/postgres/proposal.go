package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
)

const proposalColumns = `id, tender_id, tender_title, content, status, version, tx_id,
	created_at, updated_at, submitted_at`

// PostgresProposalRepository implements repositories.ProposalRepository
type PostgresProposalRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProposalRepository creates a new PostgresProposalRepository
func NewProposalRepository(config *RepositoryConfig) repositories.ProposalRepository {
	return &PostgresProposalRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new proposal
func (r *PostgresProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Proposals, proposalColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		p.ID, p.TenderID, p.TenderTitle, p.Content, p.Status, p.Version, p.TxID,
		p.CreatedAt, p.UpdatedAt, p.SubmittedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return domain.NewNotFound("Tender")
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "proposal already exists",
				ResourceType: "proposal",
				ResourceID:   p.ID,
			}
		}
		return fmt.Errorf("create proposal: %w", err)
	}

	return nil
}

// GetByID retrieves a proposal by id
func (r *PostgresProposalRepository) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, proposalColumns, r.tables.Proposals)

	executor := GetExecutor(ctx, r.pool)
	p, err := scanProposal(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("Proposal")
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	return p, nil
}

// Update replaces the mutable columns of a proposal
func (r *PostgresProposalRepository) Update(ctx context.Context, p *models.Proposal) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $2, status = $3, version = $4, tx_id = $5,
		    updated_at = $6, submitted_at = $7
		WHERE id = $1
	`, r.tables.Proposals)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		p.ID, p.Content, p.Status, p.Version, p.TxID, p.UpdatedAt, p.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Proposal")
	}

	return nil
}

// List returns all proposals, oldest first
func (r *PostgresProposalRepository) List(ctx context.Context) ([]models.Proposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at`, proposalColumns, r.tables.Proposals)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}

	return proposals, nil
}

func scanProposal(row pgx.Row) (*models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(
		&p.ID,
		&p.TenderID,
		&p.TenderTitle,
		&p.Content,
		&p.Status,
		&p.Version,
		&p.TxID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
