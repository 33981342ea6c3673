package services

import (
	"context"

	"tenderly/internal/domain/models"
)

// TenderService exposes tender reference data
type TenderService interface {
	ListTenders(ctx context.Context) ([]models.Tender, error)
	GetTender(ctx context.Context, id string) (*models.Tender, error)
}
