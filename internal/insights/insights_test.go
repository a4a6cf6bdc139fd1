package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

func newTestGenerator() *Generator {
	return NewGenerator(vocab.Default(), func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	})
}

// TestFill tests the bounded padding primitive
func TestFill(t *testing.T) {
	generic := []string{"g1", "g2", "g3"}

	tests := []struct {
		name                 string
		rules                []string
		floor, target, limit int
		want                 []string
	}{
		{name: "Pads to target", rules: []string{"r1"}, floor: 3, target: 3, limit: 5, want: []string{"r1", "g1", "g2"}},
		{name: "Enough rules", rules: []string{"r1", "r2", "r3"}, floor: 3, target: 3, limit: 5, want: []string{"r1", "r2", "r3"}},
		{name: "Capped", rules: []string{"r1", "r2", "r3", "r4"}, floor: 2, target: 2, limit: 3, want: []string{"r1", "r2", "r3"}},
		{name: "Skips present generics", rules: []string{"g1"}, floor: 2, target: 2, limit: 3, want: []string{"g1", "g2"}},
		{name: "Target above floor", rules: []string{"r1", "r2"}, floor: 3, target: 4, limit: 0, want: []string{"r1", "r2", "g1", "g2"}},
		{name: "Generic exhausted", rules: nil, floor: 5, target: 5, limit: 5, want: []string{"g1", "g2", "g3"}},
		{name: "Duplicate rules collapse", rules: []string{"r1", "r1"}, floor: 2, target: 2, limit: 3, want: []string{"r1", "g1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fill(tt.rules, generic, tt.floor, tt.target, tt.limit))
		})
	}
}

// TestStrengthsAndWeaknessesBounds tests list sizes across varied profiles
func TestStrengthsAndWeaknessesBounds(t *testing.T) {
	g := newTestGenerator()

	profiles := []struct {
		name      string
		profile   models.CandidateProfile
		required  []string
		preferred []string
	}{
		{name: "Empty profile and job", profile: models.CandidateProfile{}},
		{
			name:      "Strong candidate",
			profile:   models.CandidateProfile{Skills: []string{"Go", "SQL", "Docker"}, YearsOfExperience: 9},
			required:  []string{"go", "sql"},
			preferred: []string{"docker"},
		},
		{
			name:      "Weak candidate",
			profile:   models.CandidateProfile{Skills: []string{"Excel"}, YearsOfExperience: 1},
			required:  []string{"Go", "SQL", "Docker", "Kubernetes"},
			preferred: []string{"Rust", "Kafka"},
		},
		{
			name:     "Negative years",
			profile:  models.CandidateProfile{YearsOfExperience: -4},
			required: []string{"Go"},
		},
	}

	for _, tt := range profiles {
		t.Run(tt.name, func(t *testing.T) {
			strengths := g.Strengths(tt.profile, tt.required, tt.preferred)
			weaknesses := g.Weaknesses(tt.profile, tt.required, tt.preferred)

			assert.GreaterOrEqual(t, len(strengths), StrengthsFloor)
			assert.LessOrEqual(t, len(strengths), StrengthsCap)
			assert.GreaterOrEqual(t, len(weaknesses), WeaknessesFloor)
			assert.LessOrEqual(t, len(weaknesses), WeaknessesCap)
		})
	}
}

func TestStrengthsRules(t *testing.T) {
	profile := models.CandidateProfile{Skills: []string{"Go", "SQL", "Docker"}, YearsOfExperience: 9}
	strengths := newTestGenerator().Strengths(profile, []string{"GO", "sql"}, []string{"docker", "rust"})

	assert.Equal(t, []string{
		"Strong match with the required skills (2/2 key skills).",
		"Significant professional experience (9 years).",
		vocab.Default().GenericStrengths[0],
	}, strengths)
}

func TestWeaknessesRules(t *testing.T) {
	g := newTestGenerator()

	most := g.Weaknesses(models.CandidateProfile{Skills: []string{"Go"}, YearsOfExperience: 1},
		[]string{"Go", "SQL", "Docker", "Kafka", "Rust"}, []string{"Redis", "gRPC", "Helm"})
	require.Len(t, most, 3)
	assert.Equal(t, "Several required skills are not mentioned in the CV (SQL, Docker, Kafka).", most[0])
	assert.Equal(t, "Limited professional experience in the field.", most[1])
	assert.Equal(t, "Lacks most of the preferred complementary skills.", most[2])

	few := g.Weaknesses(models.CandidateProfile{Skills: []string{"Go", "SQL"}, YearsOfExperience: 6},
		[]string{"Go", "SQL", "Docker"}, nil)
	assert.Equal(t, "Some required skills are not explicitly mentioned (Docker).", few[0])
	assert.Len(t, few, 2)
}

func TestExperienceInsights(t *testing.T) {
	g := newTestGenerator()

	assert.Equal(t, []string{"No detailed professional experience in the CV."}, g.ExperienceInsights(nil))

	experience := []models.Experience{
		{Title: "Senior Lead Engineer", Company: "Finance Tech Corp", StartYear: 2020, EndYear: models.Ongoing()},
		{Title: "Engineer", Company: "Acme", StartYear: 2012, EndYear: models.Year(2016), Description: "Retail platform"},
		{Title: "Intern", Company: "Media SA", StartYear: 2010, EndYear: models.Year(2011)},
	}
	got := g.ExperienceInsights(experience)

	assert.Contains(t, got, "Visible career progression with a promotion to a senior position.")
	assert.Contains(t, got, "Moved into management responsibilities.")
	assert.Contains(t, got, "Demonstrated stability with 6 years at Finance Tech Corp.")
	assert.Contains(t, got, "Experience in the following sectors: tech, finance, media, retail.")
	assert.Contains(t, got, "Diverse career path with multiple professional experiences.")
}

func TestExperienceInsightsGapAndPadding(t *testing.T) {
	g := newTestGenerator()

	// chronological order, three years uncovered between the roles
	experience := []models.Experience{
		{Title: "Analyst", Company: "Initrode", StartYear: 2010, EndYear: models.Year(2011)},
		{Title: "Analyst", Company: "Globex", StartYear: 2014, EndYear: models.Year(2015)},
	}
	got := g.ExperienceInsights(experience)

	assert.Equal(t, "Periods of inactivity in the career path.", got[0])
	assert.Len(t, got, 4)
}

func TestExperienceInsightsOngoingGap(t *testing.T) {
	experience := []models.Experience{
		{Title: "Dev", Company: "A", StartYear: 2024, EndYear: models.Ongoing()},
		{Title: "Dev", Company: "B", StartYear: 2030, EndYear: models.Year(2031)},
	}
	got := newTestGenerator().ExperienceInsights(experience)
	assert.Contains(t, got, "Periods of inactivity in the career path.")
}

func TestEducationInsights(t *testing.T) {
	g := newTestGenerator()

	assert.Equal(t, []string{"No detailed education in the CV."}, g.EducationInsights(nil))

	education := []models.Education{
		{Degree: "Licence", Institution: "Université de Lyon", StartYear: 2008, EndYear: 2011},
		{Degree: "Master Informatique", Institution: "École Polytechnique", StartYear: 2019, EndYear: 2022},
		{Degree: "MBA", Institution: "HEC Paris", StartYear: 2023, EndYear: 2024},
	}
	got := g.EducationInsights(education)

	assert.Equal(t, []string{
		"Advanced degree (master's level or higher).",
		"Studied at École Polytechnique, a renowned institution.",
		"Education specialized in a technical or computing field.",
		"Recent education, completed less than 5 years ago.",
	}, got)
}

func TestEducationInsightsPadsToTwo(t *testing.T) {
	education := []models.Education{{Degree: "Licence", Institution: "Université de Lyon", StartYear: 2000, EndYear: 2003}}
	got := newTestGenerator().EducationInsights(education)

	assert.Equal(t, vocab.Default().GenericEducationInsights[:2], got)
}

func TestGenerate(t *testing.T) {
	got := newTestGenerator().Generate(models.CandidateProfile{}, nil, nil)

	assert.Len(t, got.Strengths, 3)
	assert.Len(t, got.Weaknesses, 2)
	assert.Len(t, got.ExperienceInsights, 1)
	assert.Len(t, got.EducationInsights, 1)
}
