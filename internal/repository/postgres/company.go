package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
)

// PostgresCompanyRepository implements repositories.CompanyRepository.
// The profile lives in a single row with id = 1.
type PostgresCompanyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCompanyRepository creates a new PostgresCompanyRepository
func NewCompanyRepository(config *RepositoryConfig) repositories.CompanyRepository {
	return &PostgresCompanyRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves the profile; an empty profile when none was saved yet
func (r *PostgresCompanyRepository) Get(ctx context.Context) (*models.CompanyProfile, error) {
	query := fmt.Sprintf(`
		SELECT name, registration_number, certifications, experience,
		       contact_email, contact_phone, address, updated_at
		FROM %s
		WHERE id = 1
	`, r.tables.Company)

	var p models.CompanyProfile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query).Scan(
		&p.Name,
		&p.RegistrationNumber,
		&p.Certifications,
		&p.Experience,
		&p.ContactEmail,
		&p.ContactPhone,
		&p.Address,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return &models.CompanyProfile{Certifications: []string{}}, nil
		}
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}

	return &p, nil
}

// Save replaces the stored profile
func (r *PostgresCompanyRepository) Save(ctx context.Context, p *models.CompanyProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, registration_number, certifications, experience,
		                contact_email, contact_phone, address, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			registration_number = EXCLUDED.registration_number,
			certifications = EXCLUDED.certifications,
			experience = EXCLUDED.experience,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			address = EXCLUDED.address,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Company)

	certs := p.Certifications
	if certs == nil {
		certs = []string{}
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query,
		p.Name,
		p.RegistrationNumber,
		certs,
		p.Experience,
		p.ContactEmail,
		p.ContactPhone,
		p.Address,
		p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save company profile: %w", err)
	}

	return nil
}
