// Package extraction turns résumé text into a structured candidate profile.
package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// Permissive: year ranges such as "2018-2021" also match
	phonePattern = regexp.MustCompile(`(\+\d{1,3}\s?)?(\d{1,4}[\s.-]?){3}\d{1,4}`)
)

// Extractor derives a CandidateProfile from plain text
type Extractor struct {
	tagger                nlp.Tagger
	vocab                 *vocab.Vocabulary
	now                   func() time.Time
	preserveNegativeTerms bool
	logger                *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock overrides the clock used to resolve ongoing positions
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithPreserveNegativeTerms sums reversed date ranges as negative years
// instead of clamping them to zero
func WithPreserveNegativeTerms(preserve bool) Option {
	return func(e *Extractor) { e.preserveNegativeTerms = preserve }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// New creates an extractor. A nil vocabulary means the defaults.
func New(tagger nlp.Tagger, v *vocab.Vocabulary, opts ...Option) *Extractor {
	if v == nil {
		v = vocab.Default()
	}
	e := &Extractor{
		tagger: tagger,
		vocab:  v,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a profile from text. Field parsing is best-effort; only a
// tagger failure is returned as an error.
func (e *Extractor) Extract(ctx context.Context, text string) (models.CandidateProfile, error) {
	annotations, err := e.tagger.Tag(ctx, text)
	if err != nil {
		return models.CandidateProfile{}, fmt.Errorf("failed to tag text: %w", err)
	}

	profile := models.CandidateProfile{
		FullName:   FullName(annotations),
		Email:      emailPattern.FindString(text),
		Phone:      phonePattern.FindString(text),
		Skills:     Skills(text, annotations, e.vocab.Skills),
		Experience: ExtractExperience(text, e.vocab),
		Education:  ExtractEducation(text, e.vocab),
	}

	profile.YearsOfExperience, profile.Warnings = e.yearsOfExperience(profile.Experience)
	for _, w := range profile.Warnings {
		e.logger.Warn("experience validation", zap.String("warning", w))
	}

	e.logger.Debug("profile extracted",
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience", len(profile.Experience)),
		zap.Int("education", len(profile.Education)),
	)
	return profile, nil
}

// FullName returns the first PERSON span, or ""
func FullName(annotations []nlp.Annotation) string {
	for _, a := range annotations {
		if a.Label == nlp.LabelPerson {
			return strings.TrimSpace(a.Text)
		}
	}
	return ""
}

// Skills returns vocabulary entries found in text followed by noun tokens
// naming a vocabulary entry, deduplicated case-insensitively
func Skills(text string, annotations []nlp.Annotation, vocabulary []string) []string {
	lowerText := strings.ToLower(text)
	known := make(map[string]bool, len(vocabulary))
	seen := make(map[string]bool)
	skills := []string{}

	add := func(s string) {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			skills = append(skills, s)
		}
	}

	for _, skill := range vocabulary {
		key := strings.ToLower(skill)
		known[key] = true
		if key != "" && strings.Contains(lowerText, key) {
			add(skill)
		}
	}

	for _, a := range annotations {
		if a.Label != nlp.LabelNoun && a.Label != nlp.LabelPropN {
			continue
		}
		if known[strings.ToLower(a.Text)] {
			add(a.Text)
		}
	}
	return skills
}

// yearsOfExperience sums end minus start over all records. Reversed ranges
// are clamped to zero with a warning unless preserveNegativeTerms is set.
func (e *Extractor) yearsOfExperience(experience []models.Experience) (int, []string) {
	currentYear := e.now().Year()
	var (
		total    int
		warnings []string
	)
	for _, exp := range experience {
		term := exp.EndYear.Resolve(currentYear) - exp.StartYear
		if term < 0 {
			warnings = append(warnings, fmt.Sprintf("experience %q has end year %s before start year %d",
				exp.Title, exp.EndYear, exp.StartYear))
			if !e.preserveNegativeTerms {
				term = 0
			}
		}
		total += term
	}
	return total, warnings
}
