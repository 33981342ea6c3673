package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/services"
	"tenderly/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store      *memory.Store
	proposals  services.ProposalService
	submission services.SubmissionService
	company    services.CompanyService
}

func newFixture(t *testing.T, issuer stubIssuer) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	for _, tn := range []models.Tender{
		{ID: "1", Title: "Office Building", Agency: "Ministry of Public Works", Category: models.CategoryConstruction},
		{ID: "2", Title: "IT Modernization", Agency: "Department of Digital Services", Category: models.CategoryITServices},
	} {
		tn := tn
		if err := store.Tenders().Upsert(ctx, &tn); err != nil {
			t.Fatalf("seed tender: %v", err)
		}
	}

	logger := testLogger()
	return &fixture{
		store:      store,
		proposals:  NewProposalService(store.Proposals(), store.Versions(), store.Tenders(), store, logger, nil),
		submission: NewSubmissionService(store.Proposals(), store.Tenders(), store.Attestations(), store, issuer, logger, nil),
		company:    NewCompanyService(store.Company(), store, logger),
	}
}

// stubIssuer returns fixed ids in order, or err when set
type stubIssuer struct {
	ids []string
	err error
	n   *int
}

func newStubIssuer(ids ...string) stubIssuer {
	return stubIssuer{ids: ids, n: new(int)}
}

func (s stubIssuer) Issue(ctx context.Context, proposalID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if *s.n >= len(s.ids) {
		return "", errors.New("no more ids")
	}
	id := s.ids[*s.n]
	*s.n++
	return id, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
