package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/claim-core/internal/application/handlers"
	"github.com/ersonp/claim-core/internal/domain/ports"
	"github.com/ersonp/claim-core/internal/domain/services"
	"github.com/ersonp/claim-core/internal/infrastructure/auditdb/sqlite"
	"github.com/ersonp/claim-core/internal/infrastructure/config"
	embedder "github.com/ersonp/claim-core/internal/infrastructure/embedder/openai"
	llm "github.com/ersonp/claim-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/claim-core/internal/infrastructure/search"
	"github.com/ersonp/claim-core/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	AnalyzeHandler  *handlers.AnalyzeHandler
	FeedbackHandler *handlers.FeedbackHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	index   *qdrant.Repository
	auditDB *sqlite.Repository
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct repository access.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	index, err := qdrant.NewRepository(cfg.Qdrant, emb)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer index.Close()

	auditDB, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DatabasePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer auditDB.Close()

	if err := auditDB.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	aggregator := services.NewAggregator(buildProviders(cfg.Search), cfg.Search.Timeout)

	analysisService := services.NewAnalysisService(index, llmClient, aggregator, auditDB, services.AnalysisConfig{
		SimilarityThreshold: cfg.Analysis.SimilarityThreshold,
		CandidateLimit:      cfg.Analysis.CandidateLimit,
		EvidenceTarget:      cfg.Analysis.EvidenceTarget,
	})
	feedbackService := services.NewFeedbackService(index, auditDB)

	deps := &internalDeps{
		Deps: Deps{
			Config:          cfg,
			AnalyzeHandler:  handlers.NewAnalyzeHandler(analysisService),
			FeedbackHandler: handlers.NewFeedbackHandler(feedbackService),
		},
		index:   index,
		auditDB: auditDB,
	}

	return fn(deps)
}

// buildProviders assembles the search provider chain in priority
// order. Key-gated providers are skipped when unconfigured; DuckDuckGo
// needs no key and is always present.
func buildProviders(cfg config.SearchConfig) []ports.SearchProvider {
	var providers []ports.SearchProvider

	if cfg.TavilyAPIKey != "" {
		providers = append(providers, decorate(search.NewTavily(cfg.TavilyAPIKey), cfg))
	}
	if cfg.SerpAPIKey != "" {
		providers = append(providers, decorate(search.NewSerpAPI(cfg.SerpAPIKey), cfg))
	}
	providers = append(providers, decorate(search.NewDuckDuckGo(), cfg))

	return providers
}

// decorate wraps a provider with rate limiting and result caching.
func decorate(provider ports.SearchProvider, cfg config.SearchConfig) ports.SearchProvider {
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		provider = search.NewRateLimitedProvider(provider, cfg.RatePerSecond, burst)
	}
	if cfg.CacheTTL > 0 {
		provider = search.NewCachedProvider(provider, cfg.CacheTTL)
	}
	return provider
}

// withIndex provides direct semantic index access for commands that need it.
func withIndex(fn func(ports.SemanticIndex) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(d.index)
	})
}

// withAuditDB provides direct audit database access.
func withAuditDB(fn func(*sqlite.Repository) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(d.auditDB)
	})
}
