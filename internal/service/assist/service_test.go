package assist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/services"
	"tenderly/internal/llm"
	"tenderly/internal/repository/memory"
	svcpkg "tenderly/internal/service"
	"tenderly/internal/speech"
)

// fakeGenerator returns canned output and counts calls
type fakeGenerator struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
	last  *llm.Request
	mu    sync.Mutex
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(ctx context.Context, req *llm.Request) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.last = req
	g.mu.Unlock()
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

type testEnv struct {
	store *memory.Store
	cache *memory.SummaryCache
	svc   services.AssistService
}

func newEnv(t *testing.T, gen llm.TextGenerator) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	for _, tn := range []models.Tender{
		{ID: "1", Title: "Office Building", Agency: "Ministry of Public Works", Category: models.CategoryConstruction, Description: "Build it"},
		{ID: "2", Title: "IT Modernization", Agency: "Department of Digital Services", Category: models.CategoryITServices},
		{ID: "3", Title: "Medical Equipment", Agency: "Health Department", Category: models.CategoryHealthcare},
	} {
		tn := tn
		require.NoError(t, store.Tenders().Upsert(ctx, &tn))
	}
	require.NoError(t, store.Company().Save(ctx, &models.CompanyProfile{
		Name:           "TechBuild",
		Experience:     "20 years of building.",
		Certifications: []string{"ISO 9001:2015", "OHSAS 18001"},
	}))

	proposals := svcpkg.NewProposalService(store.Proposals(), store.Versions(), store.Tenders(), store, logger, nil)
	cache := memory.NewSummaryCache()

	return &testEnv{
		store: store,
		cache: cache,
		svc: NewService(store.Tenders(), store.Company(), proposals, gen, speech.NewPlaceholder(), cache, nil, logger,
			Config{Timeout: time.Second, SummaryTTL: time.Hour}),
	}
}

func TestCheckEligibility_Offline(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		tenderID   string
		wantLen    int
		ineligible []int
	}{
		{tenderID: "1", wantLen: 5, ineligible: []int{2}},
		{tenderID: "2", wantLen: 5, ineligible: []int{0, 1}},
		{tenderID: "3", wantLen: 3, ineligible: []int{2}},
	}

	for _, tt := range tests {
		t.Run("tender "+tt.tenderID, func(t *testing.T) {
			items, err := env.svc.CheckEligibility(context.Background(), tt.tenderID)
			require.NoError(t, err)
			require.Len(t, items, tt.wantLen)

			var got []int
			for i, item := range items {
				if !item.Eligible {
					got = append(got, i)
				}
			}
			assert.Equal(t, tt.ineligible, got)
		})
	}

	items, err := env.svc.CheckEligibility(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Valid contractor license Grade A", items[2].Requirement)
}

func TestCheckEligibility_ParsesModelOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []models.EligibilityItem
	}{
		{
			name:   "array embedded in prose",
			output: "Here you go:\n[{\"requirement\": \"5+ years\", \"eligible\": true},\n {\"requirement\": \"Grade A\", \"eligible\": false}]\nHope it helps",
			want: []models.EligibilityItem{
				{Requirement: "5+ years", Eligible: true},
				{Requirement: "Grade A", Eligible: false},
			},
		},
		{
			name:   "no array",
			output: "The company looks eligible.",
			want:   genericEligibility,
		},
		{
			name:   "malformed array",
			output: "[{requirement: nope}]",
			want:   verificationEligibility,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, &fakeGenerator{text: tt.output})
			items, err := env.svc.CheckEligibility(context.Background(), "1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestSummarize_Offline(t *testing.T) {
	env := newEnv(t, nil)

	summary, err := env.svc.Summarize(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "This tender from Ministry of Public Works seeks qualified contractors for office building."))
	assert.Contains(t, summary, "comprehensive construction services")
}

func TestSummarize_UnknownTender(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.svc.Summarize(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarize_CachesAndCollapses(t *testing.T) {
	gen := &fakeGenerator{text: "A summary.", delay: 50 * time.Millisecond}
	env := newEnv(t, gen)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := env.svc.Summarize(context.Background(), "1")
			assert.NoError(t, err)
			assert.Equal(t, "A summary.", summary)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), gen.calls.Load())

	// Served from cache
	_, err := env.svc.Summarize(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), gen.calls.Load())

	cached, ok, err := env.cache.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A summary.", cached)
}

func TestSummarize_UpstreamFailure(t *testing.T) {
	env := newEnv(t, &fakeGenerator{err: errors.New("rate limited")})

	_, err := env.svc.Summarize(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrUpstream)

	_, ok, _ := env.cache.Get(context.Background(), "1")
	assert.False(t, ok)
}

func TestGenerateDraft(t *testing.T) {
	t.Run("offline template", func(t *testing.T) {
		env := newEnv(t, nil)
		p, err := env.svc.GenerateDraft(context.Background(), "1")
		require.NoError(t, err)

		assert.Equal(t, "1", p.TenderID)
		assert.Equal(t, models.ProposalStatusDraft, p.Status)
		assert.True(t, strings.HasPrefix(p.Content, "# Proposal for Office Building\n\n## Executive Summary"))
		assert.Contains(t, p.Content, "Our certifications include: ISO 9001:2015, OHSAS 18001")
		assert.Contains(t, p.Content, "TechBuild Team")

		stored, err := env.store.Proposals().GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Content, stored.Content)
	})

	t.Run("provider output", func(t *testing.T) {
		gen := &fakeGenerator{text: "# Generated"}
		env := newEnv(t, gen)
		p, err := env.svc.GenerateDraft(context.Background(), "2")
		require.NoError(t, err)
		assert.Equal(t, "# Generated", p.Content)
		assert.Equal(t, 1500, gen.last.MaxTokens)
		assert.Contains(t, gen.last.Prompt, "Certifications: ISO 9001:2015, OHSAS 18001")
	})

	t.Run("provider failure creates nothing", func(t *testing.T) {
		env := newEnv(t, &fakeGenerator{err: errors.New("boom")})
		_, err := env.svc.GenerateDraft(context.Background(), "1")
		assert.ErrorIs(t, err, domain.ErrUpstream)

		list, err := env.store.Proposals().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestVoiceSummary(t *testing.T) {
	env := newEnv(t, nil)

	voice, err := env.svc.VoiceSummary(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(voice.URL, "data:audio/wav;base64,"))
	assert.Equal(t, speech.PlaceholderMessage, voice.Message)

	_, err = env.svc.VoiceSummary(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfflineDraft_DefaultCertifications(t *testing.T) {
	draft := offlineDraft(&models.Tender{Title: "X", Agency: "Y", Category: "Other"}, &models.CompanyProfile{Name: "Z"})
	assert.Contains(t, draft, "Our certifications include: Various industry certifications")
}
