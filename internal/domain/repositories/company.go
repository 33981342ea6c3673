package repositories

import (
	"context"

	"tenderly/internal/domain/models"
)

// CompanyRepository stores the singleton company profile
type CompanyRepository interface {
	// Get returns the profile; an empty profile if none was ever saved
	Get(ctx context.Context) (*models.CompanyProfile, error)

	// Save replaces the stored profile
	Save(ctx context.Context, profile *models.CompanyProfile) error
}
