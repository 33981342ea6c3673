package memory

import (
	"context"

	"tenderly/internal/domain/models"
)

type companyRepository struct {
	s *Store
}

func (r *companyRepository) Get(ctx context.Context) (*models.CompanyProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p := r.s.company
	p.Certifications = cloneStrings(p.Certifications)
	return &p, nil
}

func (r *companyRepository) Save(ctx context.Context, profile *models.CompanyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := *profile
	p.Certifications = cloneStrings(p.Certifications)
	r.s.company = p
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
