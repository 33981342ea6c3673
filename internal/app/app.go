// Package app wires configuration, storage, services and the HTTP server
// into a runnable process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tenderly/internal/attestation"
	"tenderly/internal/auth"
	"tenderly/internal/config"
	"tenderly/internal/domain/repositories"
	"tenderly/internal/handler"
	"tenderly/internal/llm"
	"tenderly/internal/llm/providers"
	"tenderly/internal/metrics"
	"tenderly/internal/middleware"
	"tenderly/internal/repository/memory"
	"tenderly/internal/repository/postgres"
	"tenderly/internal/repository/redis"
	"tenderly/internal/seed"
	"tenderly/internal/server"
	"tenderly/internal/service"
	"tenderly/internal/service/assist"
	"tenderly/internal/speech"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests
const shutdownTimeout = 10 * time.Second

// Stores is the record store the services run against
type Stores struct {
	Tenders      repositories.TenderRepository
	Company      repositories.CompanyRepository
	Proposals    repositories.ProposalRepository
	Versions     repositories.VersionRepository
	Attestations repositories.AttestationRepository
	Tx           repositories.TransactionManager
}

// Options replaces external collaborators, mainly for tests.
// Zero values select the configured implementation.
type Options struct {
	Stores    *Stores
	Generator llm.TextGenerator
	Issuer    attestation.Issuer
	Verifier  auth.JWTVerifier
}

// App owns every long-lived resource of the server process
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	handler http.Handler
	server  *server.Server
	closers []func()
}

// New builds the application. On error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (_ *App, err error) {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewMetrics(),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	stores := opts.Stores
	if stores == nil {
		stores, err = a.openStores(ctx)
		if err != nil {
			return nil, err
		}
	}

	fixture, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("load seed fixture: %w", err)
	}
	if err := seed.Apply(ctx, fixture, seed.Stores{
		Tenders:      stores.Tenders,
		Company:      stores.Company,
		Attestations: stores.Attestations,
	}, cfg.SeedDemoData, logger); err != nil {
		return nil, fmt.Errorf("apply seed: %w", err)
	}

	cache, err := a.openSummaryCache(ctx)
	if err != nil {
		return nil, err
	}

	generator := opts.Generator
	if generator == nil {
		generator, err = providers.NewTextGenerator(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	issuer := opts.Issuer
	if issuer == nil {
		issuer = attestation.NewMockIssuer()
	}

	verifier := opts.Verifier
	if verifier == nil && cfg.AuthEnabled() {
		// The JWKS refresh goroutine lives as long as the app
		jwksCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		a.closers = append(a.closers, cancel)
		v, err := auth.NewJWTVerifier(jwksCtx, cfg.SupabaseJWKSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("create JWT verifier: %w", err)
		}
		verifier = v
	}
	if verifier == nil {
		logger.Warn("SUPABASE_URL not set, API is unauthenticated")
	}

	tenderService := service.NewTenderService(stores.Tenders, logger)
	companyService := service.NewCompanyService(stores.Company, stores.Tx, logger)
	proposalService := service.NewProposalService(stores.Proposals, stores.Versions, stores.Tenders, stores.Tx, logger, a.metrics)
	submissionService := service.NewSubmissionService(stores.Proposals, stores.Tenders, stores.Attestations, stores.Tx, issuer, logger, a.metrics)
	assistService := assist.NewService(
		stores.Tenders,
		stores.Company,
		proposalService,
		generator,
		speech.NewPlaceholder(),
		cache,
		a.metrics,
		logger,
		assist.Config{Timeout: cfg.AITimeout, SummaryTTL: cfg.SummaryCacheTTL},
	)

	a.handler = server.NewRouter(server.RouterConfig{
		Logger:      logger,
		Metrics:     a.metrics,
		Verifier:    verifier,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		AIRateLimit: middleware.RateLimitConfig{
			PerMinute: cfg.AIRatePerMinute,
			Burst:     cfg.AIRateBurst,
		},
	}, server.Handlers{
		Tenders:     handler.NewTenderHandler(tenderService, logger),
		Company:     handler.NewCompanyHandler(companyService, logger),
		Proposals:   handler.NewProposalHandler(proposalService, logger),
		Submissions: handler.NewSubmissionHandler(submissionService, logger),
		Assist:      handler.NewAssistHandler(assistService, logger),
	})

	a.server = server.New(cfg.Port, a.handler, cfg.AITimeout+30*time.Second, logger)

	logger.Info("services initialized")
	return a, nil
}

// openStores selects Postgres when DATABASE_URL is set and the in-memory store otherwise
func (a *App) openStores(ctx context.Context) (*Stores, error) {
	if a.cfg.DatabaseURL == "" {
		a.logger.Info("record store selected", "store", "memory")
		store := memory.NewStore()
		return &Stores{
			Tenders:      store.Tenders(),
			Company:      store.Company(),
			Proposals:    store.Proposals(),
			Versions:     store.Versions(),
			Attestations: store.Attestations(),
			Tx:           store,
		}, nil
	}

	if err := postgres.Migrate(ctx, a.cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := postgres.CreateConnectionPool(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	a.logger.Info("record store selected", "store", "postgres", "max_conns", pool.Config().MaxConns)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.DefaultTableNames(),
		Logger: a.logger,
	}
	return &Stores{
		Tenders:      postgres.NewTenderRepository(repoConfig),
		Company:      postgres.NewCompanyRepository(repoConfig),
		Proposals:    postgres.NewProposalRepository(repoConfig),
		Versions:     postgres.NewVersionRepository(repoConfig),
		Attestations: postgres.NewAttestationRepository(repoConfig),
		Tx:           postgres.NewTransactionManager(pool, a.logger),
	}, nil
}

// openSummaryCache uses Redis when REDIS_URL is set and a process-local cache otherwise
func (a *App) openSummaryCache(ctx context.Context) (repositories.SummaryCache, error) {
	if a.cfg.RedisURL == "" {
		return memory.NewSummaryCache(), nil
	}

	client, err := redis.Connect(ctx, a.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, func() { closeRedis(client, a.logger) })

	a.logger.Info("summary cache selected", "cache", "redis")
	return redis.NewSummaryCache(client), nil
}

func closeRedis(client *goredis.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Warn("failed to close redis", "error", err)
	}
}

// Handler returns the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("server stopped cleanly")
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
