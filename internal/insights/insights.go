// Package insights derives strengths, weaknesses and narrative observations
// from a candidate profile.
package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

// Bounds of each generated list
const (
	StrengthsFloor  = 3
	StrengthsCap    = 5
	WeaknessesFloor = 2
	WeaknessesCap   = 3

	experiencePadBelow  = 3
	experiencePadTarget = 4
	educationPadTarget  = 2
)

// Fill returns rules followed by generic entries not already present,
// padded up to target only when fewer than floor rules were given, then
// cut to limit (0 means no limit)
func Fill(rules, generic []string, floor, target, limit int) []string {
	out := make([]string, 0, max(len(rules), target))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	if len(out) < floor {
		for _, g := range generic {
			if len(out) >= target {
				break
			}
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Generator produces Insights from a profile and the job's skill lists
type Generator struct {
	vocab *vocab.Vocabulary
	now   func() time.Time
}

// NewGenerator creates a generator. A nil vocabulary means the defaults.
func NewGenerator(v *vocab.Vocabulary, now func() time.Time) *Generator {
	if v == nil {
		v = vocab.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{vocab: v, now: now}
}

// Generate builds all four insight lists
func (g *Generator) Generate(profile models.CandidateProfile, required, preferred []string) models.Insights {
	return models.Insights{
		Strengths:          g.Strengths(profile, required, preferred),
		Weaknesses:         g.Weaknesses(profile, required, preferred),
		ExperienceInsights: g.ExperienceInsights(profile.Experience),
		EducationInsights:  g.EducationInsights(profile.Education),
	}
}

// coverage splits job skills into those present in the profile and those
// missing, by case-insensitive equality
func coverage(profileSkills, jobSkills []string) (matched int, missing []string) {
	have := make(map[string]bool, len(profileSkills))
	for _, s := range profileSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, s := range jobSkills {
		if have[strings.ToLower(strings.TrimSpace(s))] {
			matched++
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

// Strengths returns between 3 and 5 entries
func (g *Generator) Strengths(profile models.CandidateProfile, required, preferred []string) []string {
	var rules []string

	if len(required) > 0 {
		matched, _ := coverage(profile.Skills, required)
		if float64(matched)/float64(len(required)) >= 0.8 {
			rules = append(rules, fmt.Sprintf("Strong match with the required skills (%d/%d key skills).", matched, len(required)))
		}
	}

	if len(preferred) > 0 {
		matched, _ := coverage(profile.Skills, preferred)
		if float64(matched) > float64(len(preferred))*0.5 {
			rules = append(rules, fmt.Sprintf("Has several of the preferred complementary skills (%d/%d).", matched, len(preferred)))
		}
	}

	if profile.YearsOfExperience >= 5 {
		rules = append(rules, fmt.Sprintf("Significant professional experience (%d years).", profile.YearsOfExperience))
	}

	return Fill(rules, g.vocab.GenericStrengths, StrengthsFloor, StrengthsFloor, StrengthsCap)
}

// Weaknesses returns between 2 and 3 entries
func (g *Generator) Weaknesses(profile models.CandidateProfile, required, preferred []string) []string {
	var rules []string

	_, missingRequired := coverage(profile.Skills, required)
	if len(missingRequired) > 0 {
		if float64(len(missingRequired)) > float64(len(required))*0.5 {
			shown := missingRequired[:min(3, len(missingRequired))]
			rules = append(rules, fmt.Sprintf("Several required skills are not mentioned in the CV (%s).", strings.Join(shown, ", ")))
		} else {
			rules = append(rules, fmt.Sprintf("Some required skills are not explicitly mentioned (%s).", strings.Join(missingRequired, ", ")))
		}
	}

	if profile.YearsOfExperience < 2 {
		rules = append(rules, "Limited professional experience in the field.")
	}

	_, missingPreferred := coverage(profile.Skills, preferred)
	if len(missingPreferred) > 0 && float64(len(missingPreferred)) > float64(len(preferred))*0.7 {
		rules = append(rules, "Lacks most of the preferred complementary skills.")
	}

	return Fill(rules, g.vocab.GenericWeaknesses, WeaknessesFloor, WeaknessesFloor, WeaknessesCap)
}

// ExperienceInsights describes the career path. Experience is expected
// most recent first.
func (g *Generator) ExperienceInsights(experience []models.Experience) []string {
	if len(experience) == 0 {
		return []string{"No detailed professional experience in the CV."}
	}

	currentYear := g.now().Year()
	var rules []string

	if len(experience) >= 2 {
		recent := strings.ToLower(experience[0].Title)
		previous := strings.ToLower(experience[1].Title)
		senior := strings.ToLower(g.vocab.SeniorTitle)
		if senior != "" && strings.Contains(recent, senior) && !strings.Contains(previous, senior) {
			rules = append(rules, "Visible career progression with a promotion to a senior position.")
		}
		if containsAny(recent, g.vocab.ManagementTitles) {
			rules = append(rules, "Moved into management responsibilities.")
		}
	}

	longest := experience[0]
	longestYears := tenure(longest, currentYear)
	for _, exp := range experience[1:] {
		if d := tenure(exp, currentYear); d > longestYears {
			longest, longestYears = exp, d
		}
	}
	if longestYears >= 3 {
		rules = append(rules, fmt.Sprintf("Demonstrated stability with %d years at %s.", longestYears, longest.Company))
	}

	var industries []string
	for _, industry := range g.vocab.Industries {
		key := strings.ToLower(industry)
		for _, exp := range experience {
			if strings.Contains(strings.ToLower(exp.Company), key) || strings.Contains(strings.ToLower(exp.Description), key) {
				industries = append(industries, industry)
				break
			}
		}
	}
	if len(industries) > 0 {
		rules = append(rules, fmt.Sprintf("Experience in the following sectors: %s.", strings.Join(industries, ", ")))
	}

	if len(experience) >= 3 {
		rules = append(rules, "Diverse career path with multiple professional experiences.")
	}

	for i := 1; i < len(experience); i++ {
		previousEnd := experience[i-1].EndYear.Resolve(currentYear)
		if experience[i].StartYear-previousEnd > 1 && previousEnd > 0 && experience[i].StartYear > 0 {
			rules = append(rules, "Periods of inactivity in the career path.")
			break
		}
	}

	if len(rules) < experiencePadBelow {
		return Fill(rules, g.vocab.GenericExperienceInsights, experiencePadBelow, experiencePadTarget, 0)
	}
	return rules
}

func tenure(exp models.Experience, currentYear int) int {
	return exp.EndYear.Resolve(currentYear) - exp.StartYear
}

// EducationInsights describes the academic background
func (g *Generator) EducationInsights(education []models.Education) []string {
	if len(education) == 0 {
		return []string{"No detailed education in the CV."}
	}

	var rules []string

	for _, edu := range education {
		if containsAny(strings.ToLower(edu.Degree), g.vocab.AdvancedDegrees) {
			rules = append(rules, "Advanced degree (master's level or higher).")
			break
		}
	}

	for _, edu := range education {
		if containsAny(strings.ToLower(edu.Institution), g.vocab.PrestigiousInstitutions) {
			rules = append(rules, fmt.Sprintf("Studied at %s, a renowned institution.", edu.Institution))
			break
		}
	}

	for _, edu := range education {
		if containsAny(strings.ToLower(edu.Degree), g.vocab.TechnicalFields) {
			rules = append(rules, "Education specialized in a technical or computing field.")
			break
		}
	}

	threshold := g.now().Year() - 5
	for _, edu := range education {
		if edu.EndYear >= threshold {
			rules = append(rules, "Recent education, completed less than 5 years ago.")
			break
		}
	}

	return Fill(rules, g.vocab.GenericEducationInsights, educationPadTarget, educationPadTarget, 0)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
