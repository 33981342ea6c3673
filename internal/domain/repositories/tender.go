package repositories

import (
	"context"

	"tenderly/internal/domain/models"
)

// TenderRepository provides read access to tender reference data
type TenderRepository interface {
	// GetByID returns domain.ErrNotFound ("Tender not found") for unknown ids
	GetByID(ctx context.Context, id string) (*models.Tender, error)

	// List returns all tenders ordered by id
	List(ctx context.Context) ([]models.Tender, error)

	// Upsert inserts or replaces a tender (seeding only)
	Upsert(ctx context.Context, tender *models.Tender) error
}
