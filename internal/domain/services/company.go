package services

import (
	"context"

	"tenderly/internal/domain/models"
)

// CompanyService manages the singleton company profile
type CompanyService interface {
	GetProfile(ctx context.Context) (*models.CompanyProfile, error)

	// UpdateProfile merges the present fields into the stored profile.
	// Fields absent from the request keep their previous value.
	UpdateProfile(ctx context.Context, req *models.UpdateCompanyRequest) (*models.CompanyProfile, error)
}
