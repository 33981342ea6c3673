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

// PostgresTenderRepository implements repositories.TenderRepository
type PostgresTenderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTenderRepository creates a new PostgresTenderRepository
func NewTenderRepository(config *RepositoryConfig) repositories.TenderRepository {
	return &PostgresTenderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a tender by id
func (r *PostgresTenderRepository) GetByID(ctx context.Context, id string) (*models.Tender, error) {
	query := fmt.Sprintf(`
		SELECT id, title, agency, description, category, closing_date, is_new
		FROM %s
		WHERE id = $1
	`, r.tables.Tenders)

	var t models.Tender
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Agency, &t.Description, &t.Category, &t.ClosingDate, &t.IsNew,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("Tender")
		}
		return nil, fmt.Errorf("get tender: %w", err)
	}

	return &t, nil
}

// List returns all tenders ordered by id (numeric ids sort numerically)
func (r *PostgresTenderRepository) List(ctx context.Context) ([]models.Tender, error) {
	query := fmt.Sprintf(`
		SELECT id, title, agency, description, category, closing_date, is_new
		FROM %s
		ORDER BY length(id), id
	`, r.tables.Tenders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer rows.Close()

	tenders := []models.Tender{}
	for rows.Next() {
		var t models.Tender
		if err := rows.Scan(&t.ID, &t.Title, &t.Agency, &t.Description, &t.Category, &t.ClosingDate, &t.IsNew); err != nil {
			return nil, fmt.Errorf("scan tender: %w", err)
		}
		tenders = append(tenders, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenders: %w", err)
	}

	return tenders, nil
}

// Upsert inserts or replaces a tender
func (r *PostgresTenderRepository) Upsert(ctx context.Context, t *models.Tender) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, agency, description, category, closing_date, is_new)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			agency = EXCLUDED.agency,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			closing_date = EXCLUDED.closing_date,
			is_new = EXCLUDED.is_new
	`, r.tables.Tenders)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query,
		t.ID, t.Title, t.Agency, t.Description, t.Category, t.ClosingDate, t.IsNew,
	); err != nil {
		return fmt.Errorf("upsert tender: %w", err)
	}

	return nil
}
