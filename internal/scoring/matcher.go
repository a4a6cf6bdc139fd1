// Package scoring matches candidate skills against a job's skill lists and
// computes the bounded match score.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a semantic match
	DefaultThreshold = 0.75
	// PreferredBonus is the score weight of full preferred-skill coverage
	PreferredBonus = 15.0
)

// Predicate decides whether a required skill and a candidate skill match.
// Both arguments are trimmed and lowercased.
type Predicate func(required, candidate string) bool

// SubstringPredicate matches equal skills or when either contains the
// other. "java" matches "javascript" in both directions.
func SubstringPredicate(required, candidate string) bool {
	return required == candidate ||
		strings.Contains(candidate, required) ||
		strings.Contains(required, candidate)
}

// TokenPredicate matches when every token of the shorter skill is a whole
// token of the longer one. "react" matches "react native"; "java" does not
// match "javascript".
func TokenPredicate(required, candidate string) bool {
	a, b := tokens(required), tokens(candidate)
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	for _, t := range a {
		if !set[t] {
			return false
		}
	}
	return true
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+#.", r)
	})
}

// Matcher reconciles candidate skills with required and preferred skills
type Matcher struct {
	embedder  nlp.Embedder
	predicate Predicate
	threshold float64
	logger    *zap.Logger
}

// Option configures a Matcher
type Option func(*Matcher)

// WithPredicate replaces the exact-pass predicate
func WithPredicate(p Predicate) Option {
	return func(m *Matcher) { m.predicate = p }
}

// WithThreshold sets the semantic similarity threshold
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) { m.threshold = threshold }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) { m.logger = logger }
}

// NewMatcher creates a matcher. A nil embedder disables the semantic pass.
func NewMatcher(embedder nlp.Embedder, opts ...Option) *Matcher {
	m := &Matcher{
		embedder:  embedder,
		predicate: SubstringPredicate,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type skill struct {
	norm string
	orig string
}

// normalize trims, lowercases and deduplicates, keeping the first casing
func normalize(skills []string) []skill {
	seen := make(map[string]bool, len(skills))
	out := make([]skill, 0, len(skills))
	for _, s := range skills {
		n := strings.ToLower(strings.TrimSpace(s))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, skill{norm: n, orig: s})
	}
	return out
}

// Match computes matched and missing skills and the match score.
// An embedding failure never fails the match: semantic comparisons count
// as no match and the result is flagged as degraded.
func (m *Matcher) Match(ctx context.Context, candidate, required, preferred []string) models.MatchResult {
	cand := normalize(candidate)
	req := normalize(required)
	pref := normalize(preferred)

	if len(req) == 0 {
		matched := make([]string, len(candidate))
		copy(matched, candidate)
		return models.MatchResult{MatchedSkills: matched, MissingSkills: []string{}, Score: 100}
	}

	matchedReq := make(map[string]bool)
	exactCand := make(map[string]bool)
	for _, r := range req {
		for _, c := range cand {
			if m.predicate(r.norm, c.norm) {
				matchedReq[r.norm] = true
				exactCand[c.norm] = true
			}
		}
	}

	var remainingReq, remainingCand []string
	for _, r := range req {
		if !matchedReq[r.norm] {
			remainingReq = append(remainingReq, r.norm)
		}
	}
	for _, c := range cand {
		if !exactCand[c.norm] {
			remainingCand = append(remainingCand, c.norm)
		}
	}

	matchedPref := make(map[string]bool)
	var unmatchedPref []string
	for _, p := range pref {
		for _, c := range cand {
			if m.predicate(p.norm, c.norm) {
				matchedPref[p.norm] = true
				break
			}
		}
		if !matchedPref[p.norm] {
			unmatchedPref = append(unmatchedPref, p.norm)
		}
	}

	result := models.MatchResult{}

	semanticCand := make(map[string]bool)
	if m.embedder != nil && len(remainingCand) > 0 && (len(remainingReq) > 0 || len(unmatchedPref) > 0) {
		vectors, err := m.embed(ctx, remainingReq, unmatchedPref, remainingCand)
		if err != nil {
			result.Degraded = true
			result.Warnings = append(result.Warnings, fmt.Sprintf("semantic matching unavailable: %v", err))
			m.logger.Warn("semantic matching degraded", zap.Error(err))
		} else {
			for _, c := range remainingCand {
				for _, r := range remainingReq {
					if nlp.CosineSimilarity(vectors[c], vectors[r]) >= m.threshold {
						matchedReq[r] = true
						semanticCand[c] = true
					}
				}
			}
			for _, p := range unmatchedPref {
				for _, c := range remainingCand {
					if nlp.CosineSimilarity(vectors[p], vectors[c]) >= m.threshold {
						matchedPref[p] = true
						break
					}
				}
			}
		}
	}

	result.MatchedSkills = []string{}
	for _, c := range cand {
		if exactCand[c.norm] || semanticCand[c.norm] {
			result.MatchedSkills = append(result.MatchedSkills, c.norm)
		}
	}

	result.MissingSkills = []string{}
	for _, r := range req {
		if !matchedReq[r.norm] {
			result.MissingSkills = append(result.MissingSkills, r.orig)
		}
	}

	result.Score = Score(len(req)-len(result.MissingSkills), len(req), len(matchedPref), len(pref))

	m.logger.Debug("skills matched",
		zap.Int("matched", len(result.MatchedSkills)),
		zap.Int("missing", len(result.MissingSkills)),
		zap.Int("score", result.Score),
		zap.Bool("degraded", result.Degraded),
	)
	return result
}

// embed vectorizes every distinct text in one call
func (m *Matcher) embed(ctx context.Context, groups ...[]string) (map[string][]float32, error) {
	seen := make(map[string]bool)
	var texts []string
	for _, group := range groups {
		for _, t := range group {
			if !seen[t] {
				seen[t] = true
				texts = append(texts, t)
			}
		}
	}

	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, nlp.Wrap("embed", fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors)))
	}

	byText := make(map[string][]float32, len(texts))
	for i, t := range texts {
		byText[t] = vectors[i]
	}
	return byText, nil
}

// Score returns min(100, round(100·matchedReq/totalReq + 15·matchedPref/totalPref)),
// clamped to [0, 100]. The preferred term is 0 when totalPref is 0.
func Score(matchedReq, totalReq, matchedPref, totalPref int) int {
	if totalReq <= 0 {
		return 100
	}
	score := 100 * float64(matchedReq) / float64(totalReq)
	if totalPref > 0 {
		score += PreferredBonus * float64(matchedPref) / float64(totalPref)
	}
	return int(math.Max(0, math.Min(100, math.Round(score))))
}
