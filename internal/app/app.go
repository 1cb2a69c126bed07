package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/study"
	"github.com/akolanti/StudyAPI/internal/study/embedding"
	"github.com/akolanti/StudyAPI/internal/study/embedding/googleEmbedding"
	"github.com/akolanti/StudyAPI/internal/study/generation"
	"github.com/akolanti/StudyAPI/internal/study/ingest"
	"github.com/akolanti/StudyAPI/internal/study/llm"
	"github.com/akolanti/StudyAPI/internal/study/llm/anthropicLLM"
	"github.com/akolanti/StudyAPI/internal/study/llm/gemini"
	"github.com/akolanti/StudyAPI/internal/study/llm/openaiLLM"
	"github.com/akolanti/StudyAPI/internal/study/questionCache"
	"github.com/akolanti/StudyAPI/internal/study/registry"
	"github.com/akolanti/StudyAPI/internal/study/segment"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB/qdrantDB"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("app")

// App is everything the HTTP server, the CLI and the MCP server share.
type App struct {
	Settings config.Settings
	Registry *registry.Registry
	Cache    questionCache.Store
	Service  study.Service
	Provider llm.Provider
}

type options struct {
	provider    llm.Provider
	hasProvider bool
	watch       bool
	engineOpts  []generation.Option
}

type Option func(*options)

// WithProvider replaces the provider named in the settings. nil means no
// backend, so every request is served from the fallback library.
func WithProvider(p llm.Provider) Option {
	return func(o *options) {
		o.provider = p
		o.hasProvider = true
	}
}

// WithoutWatcher skips the documents directory watcher even when the
// settings enable it. One-shot commands use this.
func WithoutWatcher() Option {
	return func(o *options) { o.watch = false }
}

func WithEngineOptions(opts ...generation.Option) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New builds the registry, runs the first build and wires the service. The
// watcher and external clients stop when ctx is done.
func New(ctx context.Context, settings config.Settings, opts ...Option) (*App, error) {
	o := &options{watch: settings.Ingest.Watch}
	for _, opt := range opts {
		opt(o)
	}

	seg, err := segment.New(settings.Ingest.Segmenter)
	if err != nil {
		return nil, err
	}
	chunker := ingest.NewChunker(
		ingest.WithSize(settings.Ingest.ChunkSize),
		ingest.WithOverlap(settings.Ingest.ChunkOverlap),
	)

	regOpts := []registry.Option{
		registry.WithChunker(chunker),
		registry.WithSegmenter(seg),
		registry.WithParallelism(config.IngestParallelism),
	}
	index, embedder := searchBackends(ctx, settings.Search)
	if index != nil && embedder != nil {
		regOpts = append(regOpts, registry.WithPublishHook(ingest.NewIndexer(index, embedder).IndexChanged))
	}

	reg := registry.New(ingest.NewLoader(settings.Ingest.DocumentsDir), regOpts...)
	if err := reg.Build(ctx); err != nil {
		return nil, fmt.Errorf("building course registry: %w", err)
	}
	if o.watch {
		go func() {
			if err := reg.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("documents watcher stopped", "error", err)
			}
		}()
	}

	provider := o.provider
	if !o.hasProvider {
		provider = NewProvider(ctx, settings.Generation)
	}
	if provider == nil {
		logger.Warn("no generation backend, serving fallback questions", "provider", settings.Generation.Provider)
	}

	policy := generation.DefaultBackoffPolicy()
	policy.MaxAttempts = settings.Generation.MaxAttempts
	engine := generation.NewEngine(provider, append([]generation.Option{generation.WithBackoff(policy)}, o.engineOpts...)...)

	cache := questionCache.NewStore(ctx, settings.Cache)

	cfg := study.ServiceConfig{
		Registry:      reg,
		Cache:         cache,
		Generator:     engine,
		QuestionCount: settings.Generation.QuestionCount,
	}
	if index != nil && embedder != nil {
		cfg.Index = index
		cfg.Embedder = embedder
	}

	logger.Info("study service ready", "courses", len(reg.Courses()), "search", cfg.Index != nil)
	return &App{
		Settings: settings,
		Registry: reg,
		Cache:    cache,
		Service:  study.NewService(cfg),
		Provider: provider,
	}, nil
}

// NewProvider returns the configured backend, or nil when none is configured
// or its client cannot be created.
func NewProvider(ctx context.Context, gen config.GenerationSettings) llm.Provider {
	switch gen.Provider {
	case config.LLMProviderGemini:
		return gemini.GetGeminiClient(ctx, gen.Model, gen.APIKey)
	case config.LLMProviderOpenAI:
		return openaiLLM.NewOpenAIClient(gen.Model, gen.APIKey)
	case config.LLMProviderAnthropic:
		return anthropicLLM.NewAnthropicClient(gen.Model, gen.APIKey)
	default:
		return nil
	}
}

func searchBackends(ctx context.Context, s config.SearchSettings) (vectorDB.ChunkIndex, embedding.Embedder) {
	if !s.Enabled {
		return nil, nil
	}
	holder := qdrantDB.GetQuadrantClient(ctx, s.QdrantHost, s.QdrantPort)
	if holder == nil {
		logger.Warn("qdrant unavailable, semantic search disabled", "host", s.QdrantHost)
		return nil, nil
	}
	embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, s.EmbeddingModel, s.APIKey)
	if embedder == nil {
		return nil, nil
	}
	return holder, embedder
}
