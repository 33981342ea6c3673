package memory

import (
	"context"
	"sort"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

type tenderRepository struct {
	s *Store
}

func (r *tenderRepository) GetByID(ctx context.Context, id string) (*models.Tender, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenders[id]
	if !ok {
		return nil, domain.NewNotFound("Tender")
	}
	return &t, nil
}

func (r *tenderRepository) List(ctx context.Context) ([]models.Tender, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tenders := make([]models.Tender, 0, len(r.s.tenders))
	for _, t := range r.s.tenders {
		tenders = append(tenders, t)
	}
	sort.Slice(tenders, func(i, j int) bool { return lessID(tenders[i].ID, tenders[j].ID) })
	return tenders, nil
}

func (r *tenderRepository) Upsert(ctx context.Context, tender *models.Tender) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tenders[tender.ID] = *tender
	return nil
}

// lessID orders numeric-looking ids numerically ("2" < "10"), others lexically
func lessID(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
