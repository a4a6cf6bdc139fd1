package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/config"
	"github.com/ayoubbkt/airecruitaipme/internal/extraction"
	"github.com/ayoubbkt/airecruitaipme/internal/llm"
	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
	"github.com/ayoubbkt/airecruitaipme/internal/progress"
	"github.com/ayoubbkt/airecruitaipme/internal/scoring"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

// NewService builds the tagging and embedding backends selected in cfg.
// The caller owns the returned service and must Close it.
func NewService(ctx context.Context, cfg *config.Config) (*nlp.Service, error) {
	var closers []func() error
	fail := func(err error) (*nlp.Service, error) {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return nil, errors.Join(append([]error{err}, errs...)...)
	}

	var tagger nlp.Tagger
	switch cfg.NLP.Tagger {
	case config.TaggerProse:
		tagger = nlp.NewProseTagger()
	case config.TaggerVertex:
		client, err := llm.NewVertexAIClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.NLP.TaggerModel)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize tagger: %w", err))
		}
		closers = append(closers, client.Close)
		tagger = llm.NewGeminiTagger(client)
	default:
		return fail(fmt.Errorf("unknown tagger %q", cfg.NLP.Tagger))
	}

	var embedder nlp.Embedder
	switch cfg.NLP.Embedder {
	case config.EmbedderNone:
	case config.EmbedderNGram:
		embedder = nlp.NewNGramEmbedder(cfg.NLP.EmbeddingDimension)
	case config.EmbedderVertex:
		e, err := llm.NewVertexEmbedder(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.NLP.EmbeddingModel)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize embedder: %w", err))
		}
		closers = append(closers, e.Close)
		embedder = e
	case config.EmbedderGemini:
		e, err := llm.NewGenAIEmbedder(ctx, cfg.GeminiAPIKey, cfg.NLP.EmbeddingModel)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize embedder: %w", err))
		}
		embedder = e
	default:
		return fail(fmt.Errorf("unknown embedder %q", cfg.NLP.Embedder))
	}

	return nlp.NewService(tagger, embedder, closers...), nil
}

// NewProgressStore opens the batch progress backend selected in cfg
func NewProgressStore(ctx context.Context, cfg *config.Config) (progress.Store, error) {
	switch cfg.Progress.Backend {
	case config.ProgressMemory:
		return progress.NewMemoryStore(cfg.Progress.TTL), nil
	case config.ProgressRedis:
		store, err := progress.NewRedisStore(ctx, cfg.Progress.RedisAddr, cfg.Progress.RedisPassword, cfg.Progress.RedisDB, cfg.Progress.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown progress backend %q", cfg.Progress.Backend)
	}
}

// FromConfig builds an Analyzer with the vocabulary, matching and
// extraction settings of cfg
func FromConfig(cfg *config.Config, svc *nlp.Service, store progress.Store, logger *zap.Logger) (*Analyzer, error) {
	v := vocab.Default()
	if cfg.VocabularyFile != "" {
		loaded, err := vocab.Load(cfg.VocabularyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load vocabulary: %w", err)
		}
		v = loaded
	}

	predicate := scoring.SubstringPredicate
	if cfg.Matching.Predicate == config.PredicateToken {
		predicate = scoring.TokenPredicate
	}

	return NewAnalyzer(svc,
		WithVocabulary(v),
		WithWorkers(cfg.Server.Workers),
		WithProgressStore(store),
		WithLogger(logger),
		WithExtractionOptions(extraction.WithPreserveNegativeTerms(cfg.Extraction.PreserveNegativeTerms)),
		WithMatcherOptions(
			scoring.WithThreshold(cfg.Matching.Threshold),
			scoring.WithPredicate(predicate),
		),
	), nil
}
