package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderly/internal/attestation"
	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/services"
	"tenderly/internal/repository/memory"
)

func TestSubmit_DraftBecomesSubmitted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStubIssuer("ALGOABCDEFGHIJKLM"))
	p, err := f.proposals.CreateProposal(ctx, &services.CreateProposalRequest{TenderID: "1", Content: "bid"})
	require.NoError(t, err)

	res, err := f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "ALGOABCDEFGHIJKLM", res.TxID)
	assert.Equal(t, models.ProposalStatusSubmitted, res.Status)

	got, err := f.proposals.GetProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubmitted())
	require.NotNil(t, got.TxID)
	assert.Equal(t, res.TxID, *got.TxID)
	assert.NotNil(t, got.SubmittedAt)

	list, err := f.submission.ListAttestations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Office Building", list[0].TenderTitle)
	assert.Equal(t, "Ministry of Public Works", list[0].Agency)
	assert.Equal(t, p.ID, list[0].ProposalID)
}

func TestSubmit_SecondSubmissionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStubIssuer("ALGO0000000000001", "ALGO0000000000002"))
	p, err := f.proposals.CreateProposal(ctx, &services.CreateProposalRequest{TenderID: "1", Content: "bid"})
	require.NoError(t, err)

	_, err = f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
	require.NoError(t, err)

	_, err = f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
	require.ErrorIs(t, err, domain.ErrConflict)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "ALGO0000000000001", conflict.Extra["txId"])

	list, err := f.submission.ListAttestations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmit_SubmittedProposalIsReadOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newStubIssuer("ALGO0000000000001"))
	p, err := f.proposals.CreateProposal(ctx, &services.CreateProposalRequest{TenderID: "1", Content: "bid"})
	require.NoError(t, err)
	_, err = f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
	require.NoError(t, err)

	_, err = f.proposals.SaveDraft(ctx, &services.SaveDraftRequest{ProposalID: p.ID, Content: strPtr("changed")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.proposals.GetProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "bid", got.Content)
}

func TestSubmit_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		f := newFixture(t, newStubIssuer())
		_, err := f.submission.Submit(ctx, &services.SubmitRequest{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.EqualError(t, err, "proposalId is required")
	})

	t.Run("unknown proposal", func(t *testing.T) {
		f := newFixture(t, newStubIssuer())
		_, err := f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: "nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("issuer failure leaves draft untouched", func(t *testing.T) {
		issuer := newStubIssuer()
		issuer.err = errors.New("ledger down")
		f := newFixture(t, issuer)
		p, err := f.proposals.CreateProposal(ctx, &services.CreateProposalRequest{TenderID: "1"})
		require.NoError(t, err)

		_, err = f.submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
		assert.ErrorIs(t, err, domain.ErrUpstream)

		got, err := f.proposals.GetProposal(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusDraft, got.Status)
	})
}

func TestSubmit_ConcurrentSubmissionsAttestOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Tenders().Upsert(ctx, &models.Tender{ID: "1", Title: "T", Agency: "A"}))
	logger := testLogger()
	proposals := NewProposalService(store.Proposals(), store.Versions(), store.Tenders(), store, logger, nil)
	submission := NewSubmissionService(store.Proposals(), store.Tenders(), store.Attestations(), store, attestation.NewMockIssuer(), logger, nil)

	p, err := proposals.CreateProposal(ctx, &services.CreateProposalRequest{TenderID: "1"})
	require.NoError(t, err)

	const workers = 10
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := submission.Submit(ctx, &services.SubmitRequest{ProposalID: p.ID})
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	list, err := submission.ListAttestations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
