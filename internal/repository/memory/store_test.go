package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
)

func TestTenderRepository_OrderAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Tenders()

	for _, id := range []string{"10", "2", "1"} {
		require.NoError(t, repo.Upsert(ctx, &models.Tender{ID: id, Title: "T" + id}))
	}

	tenders, err := repo.List(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, tn := range tenders {
		ids = append(ids, tn.ID)
	}
	assert.Equal(t, []string{"1", "2", "10"}, ids)

	_, err = repo.GetByID(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Tender not found")
}

func TestCompanyRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Company()

	empty, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", empty.Name)
	assert.NotNil(t, empty.Certifications)

	p := &models.CompanyProfile{Name: "Acme", Certifications: []string{"ISO 9001"}}
	require.NoError(t, repo.Save(ctx, p))
	p.Certifications[0] = "mutated"

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISO 9001"}, got.Certifications)
}

func TestVersionRepository_AppendMustIncrease(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Versions()

	latest, err := repo.Latest(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.Append(ctx, &models.VersionSnapshot{ID: "a", ProposalID: "p1", Version: 1}))
	require.NoError(t, repo.Append(ctx, &models.VersionSnapshot{ID: "b", ProposalID: "p1", Version: 2}))

	err = repo.Append(ctx, &models.VersionSnapshot{ID: "c", ProposalID: "p1", Version: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)

	history, err := repo.ListByProposal(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)

	latest, err = repo.Latest(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
}

func TestAttestationRepository_NewestFirstAndUniquePerProposal(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Attestations()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.Attestation{ID: "old", ProposalID: "p1", SubmittedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Attestation{ID: "new", ProposalID: "p2", SubmittedAt: now}))

	err := repo.Create(ctx, &models.Attestation{ID: "dup", ProposalID: "p1", SubmittedAt: now})
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	found, err := repo.GetByProposalID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "old", found.ID)

	missing, err := repo.GetByProposalID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestExecTx_SerializesUnitsAndAllowsNesting(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.ExecTx(ctx, func(ctx context.Context) error {
				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(ctx context.Context) error {
		return s.ExecTx(ctx, func(ctx context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)
}

func TestSummaryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "1", "summary", time.Minute))

	got, ok, err := c.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "summary", got)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}
