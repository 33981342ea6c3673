package service

import (
	"context"
	"log/slog"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/domain/services"
)

// tenderService implements the TenderService interface
type tenderService struct {
	tenderRepo repositories.TenderRepository
	logger     *slog.Logger
}

// NewTenderService creates a new tender service
func NewTenderService(tenderRepo repositories.TenderRepository, logger *slog.Logger) services.TenderService {
	return &tenderService{
		tenderRepo: tenderRepo,
		logger:     logger,
	}
}

func (s *tenderService) ListTenders(ctx context.Context) ([]models.Tender, error) {
	return s.tenderRepo.List(ctx)
}

func (s *tenderService) GetTender(ctx context.Context, id string) (*models.Tender, error) {
	return s.tenderRepo.GetByID(ctx, id)
}
