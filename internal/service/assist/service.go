// Package assist implements the AI helpers: tender summaries, eligibility
// checks, proposal drafting and voice summaries. Without a configured text
// generator every operation answers with deterministic canned output.
package assist

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"tenderly/internal/domain"
	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/domain/services"
	"tenderly/internal/llm"
	"tenderly/internal/metrics"
	"tenderly/internal/speech"
)

const providerOffline = "offline"

// Config tunes the assist service
type Config struct {
	// Timeout bounds each text-generation call
	Timeout time.Duration
	// SummaryTTL is how long generated summaries stay cached
	SummaryTTL time.Duration
}

// service implements services.AssistService
type service struct {
	tenderRepo  repositories.TenderRepository
	companyRepo repositories.CompanyRepository
	proposals   services.ProposalService
	generator   llm.TextGenerator // nil means offline
	synthesizer speech.Synthesizer
	cache       repositories.SummaryCache
	metrics     *metrics.Metrics
	logger      *slog.Logger
	cfg         Config

	summaries singleflight.Group
}

// NewService creates the assist service. generator may be nil for offline mode.
func NewService(
	tenderRepo repositories.TenderRepository,
	companyRepo repositories.CompanyRepository,
	proposals services.ProposalService,
	generator llm.TextGenerator,
	synthesizer speech.Synthesizer,
	cache repositories.SummaryCache,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) services.AssistService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &service{
		tenderRepo:  tenderRepo,
		companyRepo: companyRepo,
		proposals:   proposals,
		generator:   generator,
		synthesizer: synthesizer,
		cache:       cache,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
	}
}

func (s *service) providerName() string {
	if s.generator == nil {
		return providerOffline
	}
	return s.generator.Name()
}

// generate calls the text generator with the per-call timeout and records metrics
func (s *service) generate(ctx context.Context, operation string, req *llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.metrics.ObserveAI(operation, s.generator.Name(), "error", time.Since(start))
		s.logger.Error("text generation failed",
			"operation", operation,
			"provider", s.generator.Name(),
			"error", err,
		)
		return "", &domain.UpstreamError{Service: s.generator.Name(), Err: err}
	}

	s.metrics.ObserveAI(operation, s.generator.Name(), "ok", time.Since(start))
	return text, nil
}

// Summarize returns a short paragraph about the tender.
// Provider output is cached per tender; concurrent misses share one call.
func (s *service) Summarize(ctx context.Context, tenderID string) (string, error) {
	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return "", err
	}

	if s.generator == nil {
		s.metrics.ObserveAI("summarize", providerOffline, "ok", 0)
		return offlineSummary(tender), nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, tender.ID)
		if err != nil {
			s.logger.Warn("summary cache read failed", "tender_id", tender.ID, "error", err)
		}
		s.metrics.CacheLookup(ok)
		if ok {
			return cached, nil
		}
	}

	// The shared call outlives any single caller's cancellation; Timeout still bounds it
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.summaries.Do(tender.ID, func() (interface{}, error) {
		summary, err := s.generate(flightCtx, "summarize", withPrompt(summaryParams, summaryPrompt(tender)))
		if err != nil {
			return "", err
		}
		if s.cache != nil {
			if err := s.cache.Set(flightCtx, tender.ID, summary, s.cfg.SummaryTTL); err != nil {
				s.logger.Warn("summary cache write failed", "tender_id", tender.ID, "error", err)
			}
		}
		return summary, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.logger.Debug("summary shared with concurrent request", "tender_id", tender.ID)
	}

	return v.(string), nil
}

// CheckEligibility compares the tender with the company profile
func (s *service) CheckEligibility(ctx context.Context, tenderID string) ([]models.EligibilityItem, error) {
	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	if s.generator == nil {
		s.metrics.ObserveAI("eligibility", providerOffline, "ok", 0)
		return offlineEligibility(tender), nil
	}

	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, "eligibility", withPrompt(eligibilityParams, eligibilityPrompt(tender, profile)))
	if err != nil {
		return nil, err
	}

	items, parsed := parseEligibility(text)
	if !parsed {
		s.logger.Warn("eligibility output was not a JSON array, using fallback list", "tender_id", tender.ID)
	}
	return items, nil
}

// GenerateDraft writes a proposal body and stores it as a new draft
func (s *service) GenerateDraft(ctx context.Context, tenderID string) (*models.Proposal, error) {
	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var content string
	if s.generator == nil {
		s.metrics.ObserveAI("draft", providerOffline, "ok", 0)
		content = offlineDraft(tender, profile)
	} else {
		content, err = s.generate(ctx, "draft", withPrompt(draftParams, draftPrompt(tender, profile)))
		if err != nil {
			return nil, err
		}
	}

	proposal, err := s.proposals.CreateProposal(ctx, &services.CreateProposalRequest{
		TenderID: tender.ID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal drafted",
		"proposal_id", proposal.ID,
		"tender_id", tender.ID,
		"provider", s.providerName(),
	)

	return proposal, nil
}

// VoiceSummary synthesizes the tender summary
func (s *service) VoiceSummary(ctx context.Context, tenderID string) (*models.VoiceSummary, error) {
	summary, err := s.Summarize(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	voice, err := s.synthesizer.Synthesize(ctx, summary)
	if err != nil {
		s.logger.Error("speech synthesis failed", "tender_id", tenderID, "error", err)
		return nil, &domain.UpstreamError{Service: "speech", Err: err}
	}

	return voice, nil
}
