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

// PostgresVersionRepository implements repositories.VersionRepository
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new PostgresVersionRepository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append stores a new snapshot. (proposal_id, version) is unique.
func (r *PostgresVersionRepository) Append(ctx context.Context, s *models.VersionSnapshot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, proposal_id, version, content, content_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query,
		s.ID, s.ProposalID, s.Version, s.Content, s.ContentHash, s.CreatedAt,
	); err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "snapshot version must increase",
				ResourceType: "version",
				ResourceID:   s.ProposalID,
			}
		}
		return fmt.Errorf("append snapshot: %w", err)
	}

	return nil
}

// ListByProposal returns the snapshots of a proposal, version ascending
func (r *PostgresVersionRepository) ListByProposal(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, proposal_id, version, content, content_hash, created_at
		FROM %s
		WHERE proposal_id = $1
		ORDER BY version
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.VersionSnapshot{}
	for rows.Next() {
		var s models.VersionSnapshot
		if err := rows.Scan(&s.ID, &s.ProposalID, &s.Version, &s.Content, &s.ContentHash, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Latest returns the newest snapshot, or nil when there is none
func (r *PostgresVersionRepository) Latest(ctx context.Context, proposalID string) (*models.VersionSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, proposal_id, version, content, content_hash, created_at
		FROM %s
		WHERE proposal_id = $1
		ORDER BY version DESC
		LIMIT 1
	`, r.tables.Versions)

	var s models.VersionSnapshot
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, proposalID).Scan(
		&s.ID, &s.ProposalID, &s.Version, &s.Content, &s.ContentHash, &s.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}

	return &s, nil
}
