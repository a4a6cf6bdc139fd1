package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/extraction"
	"github.com/ayoubbkt/airecruitaipme/internal/ingestion"
	"github.com/ayoubbkt/airecruitaipme/internal/insights"
	"github.com/ayoubbkt/airecruitaipme/internal/logger"
	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
	"github.com/ayoubbkt/airecruitaipme/internal/progress"
	"github.com/ayoubbkt/airecruitaipme/internal/questions"
	"github.com/ayoubbkt/airecruitaipme/internal/scoring"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

// DefaultWorkers bounds concurrent document analyses in a batch
const DefaultWorkers = 4

// ErrEmptyDocument is the cause reported when a document yields no text
var ErrEmptyDocument = errors.New("no text could be extracted from the document")

// Analyzer runs the CV analysis pipeline over documents
type Analyzer struct {
	extractor    *extraction.Extractor
	matcher      *scoring.Matcher
	insights     *insights.Generator
	newQuestions func() *questions.Generator
	progress     progress.Store
	workers      int
	now          func() time.Time
	logger       *zap.Logger
}

type settings struct {
	vocab          *vocab.Vocabulary
	now            func() time.Time
	workers        int
	store          progress.Store
	logger         *zap.Logger
	seed           *uint64
	extractionOpts []extraction.Option
	matcherOpts    []scoring.Option
}

// Option configures an Analyzer
type Option func(*settings)

// WithVocabulary replaces the default vocabularies
func WithVocabulary(v *vocab.Vocabulary) Option {
	return func(s *settings) { s.vocab = v }
}

// WithClock sets the clock used for ongoing roles and recency checks
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithWorkers sets the batch concurrency
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithProgressStore sets where batch progress is recorded
func WithProgressStore(store progress.Store) Option {
	return func(s *settings) { s.store = store }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithQuestionSeed makes question selection reproducible
func WithQuestionSeed(seed uint64) Option {
	return func(s *settings) { s.seed = &seed }
}

// WithExtractionOptions forwards options to the field extractor
func WithExtractionOptions(opts ...extraction.Option) Option {
	return func(s *settings) { s.extractionOpts = append(s.extractionOpts, opts...) }
}

// WithMatcherOptions forwards options to the skill matcher
func WithMatcherOptions(opts ...scoring.Option) Option {
	return func(s *settings) { s.matcherOpts = append(s.matcherOpts, opts...) }
}

// NewAnalyzer wires the pipeline stages around the given NLP service
func NewAnalyzer(svc *nlp.Service, opts ...Option) *Analyzer {
	s := settings{
		vocab:   vocab.Default(),
		now:     time.Now,
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.store == nil {
		s.store = progress.NewMemoryStore(progress.DefaultTTL)
	}

	extractionOpts := append([]extraction.Option{
		extraction.WithClock(s.now),
		extraction.WithLogger(s.logger),
	}, s.extractionOpts...)
	matcherOpts := append([]scoring.Option{scoring.WithLogger(s.logger)}, s.matcherOpts...)

	v := s.vocab
	newQuestions := func() *questions.Generator { return questions.NewGenerator(v, nil) }
	if s.seed != nil {
		seed := *s.seed
		newQuestions = func() *questions.Generator { return questions.NewSeeded(v, seed) }
	}

	return &Analyzer{
		extractor:    extraction.New(svc.Tagger, v, extractionOpts...),
		matcher:      scoring.NewMatcher(svc.Embedder, matcherOpts...),
		insights:     insights.NewGenerator(v, s.now),
		newQuestions: newQuestions,
		progress:     s.store,
		workers:      s.workers,
		now:          s.now,
		logger:       s.logger,
	}
}

// Progress returns the store batches report to
func (a *Analyzer) Progress() progress.Store {
	return a.progress
}

// PrepareJob reduces an HTML job description to text and trims skill lists
func PrepareJob(job models.JobDescription) (models.JobDescription, error) {
	description, err := ingestion.NormalizeJobDescription(job.Description)
	if err != nil {
		return job, fmt.Errorf("failed to normalize job description: %w", err)
	}
	job.Description = description
	job.RequiredSkills = trimSkills(job.RequiredSkills)
	job.PreferredSkills = trimSkills(job.PreferredSkills)
	return job, nil
}

func trimSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Analyze extracts, scores and annotates a single résumé
func (a *Analyzer) Analyze(ctx context.Context, content []byte, ext string, job models.JobDescription) (models.AnalysisResult, error) {
	job, err := PrepareJob(job)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return a.analyze(ctx, content, ext, job)
}

func (a *Analyzer) analyze(ctx context.Context, content []byte, ext string, job models.JobDescription) (models.AnalysisResult, error) {
	text, err := ingestion.ExtractText(content, ext)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to extract text: %w", err)
	}
	text = ingestion.CleanText(text)
	if strings.TrimSpace(text) == "" {
		return models.AnalysisResult{}, &ingestion.ExtractionError{Ext: ext, Cause: ErrEmptyDocument}
	}
	a.logger.Debug("extracted text", zap.String("ext", ext), zap.String("preview", logger.Truncate(text, 120)))

	return a.AnalyzeText(ctx, text, job)
}

// AnalyzeText runs the pipeline on already extracted text
func (a *Analyzer) AnalyzeText(ctx context.Context, text string, job models.JobDescription) (models.AnalysisResult, error) {
	profile, err := a.extractor.Extract(ctx, text)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to extract profile: %w", err)
	}

	match := a.matcher.Match(ctx, profile.Skills, job.RequiredSkills, job.PreferredSkills)
	a.logger.Debug("matched skills",
		zap.Int("score", match.Score),
		zap.Int("matched", len(match.MatchedSkills)),
		zap.Int("missing", len(match.MissingSkills)),
		zap.Bool("degraded", match.Degraded),
	)

	return models.AnalysisResult{
		Profile:   profile,
		Match:     match,
		Insights:  a.insights.Generate(profile, job.RequiredSkills, job.PreferredSkills),
		Questions: a.newQuestions().Generate(profile.Skills, profile.Experience, job.Description),
	}, nil
}
