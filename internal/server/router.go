package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"tenderly/internal/auth"
	"tenderly/internal/handler"
	"tenderly/internal/httputil"
	"tenderly/internal/metrics"
	"tenderly/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Tenders     *handler.TenderHandler
	Company     *handler.CompanyHandler
	Proposals   *handler.ProposalHandler
	Submissions *handler.SubmissionHandler
	Assist      *handler.AssistHandler
}

// RouterConfig holds the cross-cutting pieces of the router
type RouterConfig struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics // nil disables /metrics
	// Verifier guards /api when set; nil leaves the API open
	Verifier    auth.JWTVerifier
	CORSOrigins string // comma separated
	// TrustProxy takes the client address from forwarding headers.
	// Without it the rate limiter keys on the connection's peer address.
	TrustProxy  bool
	AIRateLimit middleware.RateLimitConfig
}

// NewRouter builds the chi router with middleware and every route registered
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	// Order: request id → real ip (behind a proxy only) → recovery → access log → CORS → routes
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Log(cfg.Logger, cfg.Metrics))
	r.Use(corsHandler(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", handler.Health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// Inline groups share the root tree so the JSON 404/405 handlers apply to /api too
	r.Group(func(r chi.Router) {
		if cfg.Verifier != nil {
			r.Use(middleware.Auth(cfg.Verifier))
		}

		r.Get("/api/tenders", h.Tenders.ListTenders)
		r.Get("/api/tenders/{id}", h.Tenders.GetTender)

		r.Get("/api/company", h.Company.GetProfile)
		r.Put("/api/company", h.Company.UpdateProfile)

		r.Post("/api/proposals", h.Proposals.CreateProposal)
		r.Get("/api/proposals/{id}", h.Proposals.GetProposal)
		r.Post("/api/saveDraft", h.Proposals.SaveDraft)
		r.Get("/api/versions/{id}", h.Proposals.ListVersions)

		r.Post("/api/submitProposal", h.Submissions.SubmitProposal)
		r.Get("/api/attestations", h.Submissions.ListAttestations)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AIRateLimit))

			r.Post("/api/summarize", h.Assist.Summarize)
			r.Post("/api/checkEligibility", h.Assist.CheckEligibility)
			r.Post("/api/generateProposal", h.Assist.GenerateProposal)
			r.Post("/api/voiceSummary", h.Assist.VoiceSummary)
		})
	})

	return r
}

// corsHandler must run before auth so pre-flight requests are answered
func corsHandler(origins string) func(http.Handler) http.Handler {
	allowed := make([]string, 0)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: true,
	})
	return c.Handler
}
