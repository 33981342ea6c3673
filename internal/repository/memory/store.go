// Package memory is the process-local record store used when no database is
// configured. Each table is guarded by its own lock; ExecTx serializes
// transactional units so a submission or draft save never interleaves with
// another one.
package memory

import (
	"context"
	"sync"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
)

// Store holds every table of the in-memory record store
type Store struct {
	mu           sync.RWMutex
	tenders      map[string]models.Tender
	company      models.CompanyProfile
	proposals    map[string]models.Proposal
	versions     map[string][]models.VersionSnapshot
	attestations []models.Attestation

	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		tenders:   make(map[string]models.Tender),
		proposals: make(map[string]models.Proposal),
		versions:  make(map[string][]models.VersionSnapshot),
	}
}

type txKey struct{}

// ExecTx implements repositories.TransactionManager.
// Nested calls reuse the outer unit instead of deadlocking.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// Tenders returns the tender table
func (s *Store) Tenders() repositories.TenderRepository { return &tenderRepository{s: s} }

// Company returns the company profile table
func (s *Store) Company() repositories.CompanyRepository { return &companyRepository{s: s} }

// Proposals returns the proposal table
func (s *Store) Proposals() repositories.ProposalRepository { return &proposalRepository{s: s} }

// Versions returns the snapshot table
func (s *Store) Versions() repositories.VersionRepository { return &versionRepository{s: s} }

// Attestations returns the attestation table
func (s *Store) Attestations() repositories.AttestationRepository {
	return &attestationRepository{s: s}
}
