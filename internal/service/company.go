package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"tenderly/internal/config"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/domain/services"
)

// companyService implements the CompanyService interface
type companyService struct {
	companyRepo repositories.CompanyRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *companyService) GetProfile(ctx context.Context) (*models.CompanyProfile, error) {
	return s.companyRepo.Get(ctx)
}

// UpdateProfile merges present fields. An empty request returns the current profile.
func (s *companyService) UpdateProfile(ctx context.Context, req *models.UpdateCompanyRequest) (*models.CompanyProfile, error) {
	if err := validate(updateCompanyRules{req}); err != nil {
		return nil, err
	}

	var profile *models.CompanyProfile
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		current, err := s.companyRepo.Get(ctx)
		if err != nil {
			return err
		}
		if req.IsEmpty() {
			profile = current
			return nil
		}

		req.Apply(current)
		current.UpdatedAt = time.Now().UTC()
		if err := s.companyRepo.Save(ctx, current); err != nil {
			return err
		}
		profile = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !req.IsEmpty() {
		s.logger.Info("company profile updated", "name", profile.Name)
	}

	return profile, nil
}

// updateCompanyRules validates only the fields present in the request
type updateCompanyRules struct {
	req *models.UpdateCompanyRequest
}

func (r updateCompanyRules) Validate() error {
	req := r.req
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Length(0, config.MaxCompanyFieldLength).Error("name is too long")),
		validation.Field(&req.RegistrationNumber,
			validation.Length(0, config.MaxCompanyFieldLength).Error("registrationNumber is too long")),
		validation.Field(&req.ContactEmail,
			is.EmailFormat.Error("contactEmail must be a valid email address"),
			validation.Length(0, config.MaxCompanyFieldLength).Error("contactEmail is too long")),
		validation.Field(&req.ContactPhone,
			validation.Length(0, config.MaxCompanyFieldLength).Error("contactPhone is too long")),
		validation.Field(&req.Address,
			validation.Length(0, config.MaxCompanyFieldLength).Error("address is too long")),
		validation.Field(&req.Experience,
			validation.Length(0, config.MaxCompanyExperienceLength).Error("experience is too long")),
		validation.Field(&req.Certifications,
			validation.Length(0, config.MaxCertifications).Error("too many certifications"),
			validation.By(certificationLengths)),
	)
}

func certificationLengths(value interface{}) error {
	certs, _ := value.(*[]string)
	if certs == nil {
		return nil
	}
	for _, c := range *certs {
		if len(c) > config.MaxCompanyFieldLength {
			return errors.New("certification is too long")
		}
	}
	return nil
}
