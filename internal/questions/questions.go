// Package questions builds a balanced set of interview questions from a
// candidate's skills and experience and the job description.
package questions

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

// Category groups questions for balancing
type Category string

// Question categories, in assembly order
const (
	Technical   Category = "technical"
	Experience  Category = "experience"
	SoftSkills  Category = "soft_skills"
	JobSpecific Category = "job_specific"
)

var categoryOrder = []Category{Technical, Experience, SoftSkills, JobSpecific}

const (
	// MaxQuestions bounds the final list
	MaxQuestions = 10
	perCategory  = 2

	maxTechnicalSkills   = 5
	maxRecentExperiences = 2
	softSkillQuestions   = 3
	maxRequirements      = 3
	activityRunes        = 50
)

type candidate struct {
	question models.InterviewQuestion
	category Category
}

// Generator produces interview questions. It is not safe for concurrent
// use because it owns its random source.
type Generator struct {
	vocab *vocab.Vocabulary
	rng   *rand.Rand
}

// NewGenerator creates a generator. A nil rng is seeded from the clock.
func NewGenerator(v *vocab.Vocabulary, rng *rand.Rand) *Generator {
	if v == nil {
		v = vocab.Default()
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Generator{vocab: v, rng: rng}
}

// NewSeeded creates a generator with a deterministic random source
func NewSeeded(v *vocab.Vocabulary, seed uint64) *Generator {
	return NewGenerator(v, rand.New(rand.NewPCG(seed, seed)))
}

// Generate returns at most 10 questions with distinct text, taking up to
// two from each category before filling the remainder
func (g *Generator) Generate(skills []string, experiences []models.Experience, jobDescription string) []models.InterviewQuestion {
	selected := g.assemble(g.candidates(skills, experiences, jobDescription))

	out := make([]models.InterviewQuestion, len(selected))
	for i, c := range selected {
		out[i] = c.question
	}
	return out
}

func (g *Generator) candidates(skills []string, experiences []models.Experience, jobDescription string) []candidate {
	var all []candidate
	all = append(all, g.technical(skills)...)
	all = append(all, g.experience(experiences)...)
	all = append(all, g.softSkills()...)
	if strings.TrimSpace(jobDescription) != "" {
		all = append(all, g.jobSpecific(jobDescription)...)
	}
	return all
}

// assemble shuffles, takes up to two per category in order, then fills
// from the rest in shuffled order, skipping duplicate text
func (g *Generator) assemble(all []candidate) []candidate {
	g.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	used := make([]bool, len(all))
	seen := make(map[string]bool)
	var out []candidate

	take := func(i int) {
		used[i] = true
		if seen[all[i].question.Question] || len(out) >= MaxQuestions {
			return
		}
		seen[all[i].question.Question] = true
		out = append(out, all[i])
	}

	for _, cat := range categoryOrder {
		taken := 0
		for i := range all {
			if taken == perCategory {
				break
			}
			if used[i] || all[i].category != cat || seen[all[i].question.Question] {
				continue
			}
			take(i)
			taken++
		}
	}

	for i := range all {
		if !used[i] {
			take(i)
		}
	}
	return out
}

func (g *Generator) pick(templates []vocab.Template) (vocab.Template, bool) {
	if len(templates) == 0 {
		return vocab.Template{}, false
	}
	return templates[g.rng.IntN(len(templates))], true
}

func (g *Generator) technical(skills []string) []candidate {
	var out []candidate
	for _, skill := range skills[:min(maxTechnicalSkills, len(skills))] {
		tmpl, ok := g.pick(g.vocab.Templates.Technical)
		if !ok {
			break
		}
		alternative := g.alternative(skill, skills)
		if alternative == "" {
			alternative = g.vocab.Phrases.AlternativeSkill
		}
		text := strings.NewReplacer("{skill}", skill, "{alternative_skill}", alternative).Replace(tmpl.Text)
		out = append(out, candidate{
			question: models.InterviewQuestion{Question: text, Rationale: tmpl.Rationale},
			category: Technical,
		})
	}
	return out
}

// alternative prefers an adjacent skill the candidate also has, then any
// adjacent skill, then another of the candidate's skills
func (g *Generator) alternative(skill string, skills []string) string {
	key := strings.ToLower(skill)

	if adjacent := g.vocab.SkillAdjacency[key]; len(adjacent) > 0 {
		have := make(map[string]bool, len(skills))
		for _, s := range skills {
			have[strings.ToLower(s)] = true
		}
		for _, alt := range adjacent {
			if have[strings.ToLower(alt)] {
				return alt
			}
		}
		return adjacent[g.rng.IntN(len(adjacent))]
	}

	var others []string
	for _, s := range skills {
		if strings.ToLower(s) != key {
			others = append(others, s)
		}
	}
	if len(others) > 0 {
		return others[g.rng.IntN(len(others))]
	}
	return g.vocab.Phrases.OtherSkills
}

func (g *Generator) experience(experiences []models.Experience) []candidate {
	var out []candidate
	for _, exp := range experiences[:min(maxRecentExperiences, len(experiences))] {
		tmpl, ok := g.pick(g.vocab.Templates.Experience)
		if !ok {
			break
		}
		company := orDefault(exp.Company, g.vocab.Phrases.Company)
		title := orDefault(exp.Title, g.vocab.Phrases.Title)
		activity := orDefault(Activity(exp.Description), g.vocab.Phrases.Activity)

		text := strings.NewReplacer("{company}", company, "{title}", title, "{activity}", activity).Replace(tmpl.Text)
		out = append(out, candidate{
			question: models.InterviewQuestion{Question: text, Rationale: tmpl.Rationale},
			category: Experience,
		})
	}
	return out
}

// Activity is the first sentence of a description, or its first 50
// characters when it has no period
func Activity(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	if i := strings.Index(description, "."); i >= 0 {
		return strings.TrimSpace(description[:i])
	}
	if utf8.RuneCountInString(description) <= activityRunes {
		return description
	}
	return strings.TrimSpace(string([]rune(description)[:activityRunes]))
}

func (g *Generator) softSkills() []candidate {
	templates := g.vocab.Templates.SoftSkills
	n := min(softSkillQuestions, len(templates))

	out := make([]candidate, 0, n)
	for _, i := range g.rng.Perm(len(templates))[:n] {
		out = append(out, candidate{
			question: models.InterviewQuestion{Question: templates[i].Text, Rationale: templates[i].Rationale},
			category: SoftSkills,
		})
	}
	return out
}

func (g *Generator) jobSpecific(jobDescription string) []candidate {
	keywords := g.requirements(jobDescription)
	n := min(maxRequirements, len(keywords))

	out := make([]candidate, 0, n)
	for _, i := range g.rng.Perm(len(keywords))[:n] {
		tmpl, ok := g.pick(g.vocab.Templates.JobSpecific)
		if !ok {
			break
		}
		text := strings.ReplaceAll(tmpl.Text, "{job_requirement}", keywords[i])
		out = append(out, candidate{
			question: models.InterviewQuestion{Question: text, Rationale: tmpl.Rationale},
			category: JobSpecific,
		})
	}
	return out
}

// requirements returns the vocabulary keywords found in the description,
// or three random keywords when none are found
func (g *Generator) requirements(jobDescription string) []string {
	lower := strings.ToLower(jobDescription)
	var matched []string
	for _, req := range g.vocab.JobRequirements {
		if req != "" && strings.Contains(lower, strings.ToLower(req)) {
			matched = append(matched, req)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	all := g.vocab.JobRequirements
	n := min(maxRequirements, len(all))
	random := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(all))[:n] {
		random = append(random, all[i])
	}
	return random
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
