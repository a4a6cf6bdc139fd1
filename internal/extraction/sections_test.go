package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

// TestExtractExperience tests section isolation and record parsing
func TestExtractExperience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.Experience
	}{
		{
			name: "No header means no experience",
			text: "Developer, Acme 2018-2021",
			want: []models.Experience{},
		},
		{
			name: "Title and company before the date",
			text: "PROFESSIONAL EXPERIENCE\nSenior Engineer, Globex 2019 – Present\nLed the platform team.\nShipped v2.\nEducation\nMSc, Sorbonne 2010-2012",
			want: []models.Experience{{
				Title:       "Senior Engineer",
				Company:     "Globex",
				StartYear:   2019,
				EndYear:     models.Ongoing(),
				Description: "Led the platform team.\nShipped v2.",
			}},
		},
		{
			name: "Missing company uses sentinel",
			text: "Experience\nFreelancer 2015-2017",
			want: []models.Experience{{
				Title:     "Freelancer",
				Company:   models.UnknownCompany,
				StartYear: 2015,
				EndYear:   models.Year(2017),
			}},
		},
		{
			name: "Lines before the first date join the first record",
			text: "Experience\nSummary line\nAnalyst, Initech 2012-2014\nSkills\nSQL 2001-2002",
			want: []models.Experience{{
				Title:       "Analyst",
				Company:     "Initech",
				StartYear:   2012,
				EndYear:     models.Year(2014),
				Description: "Summary line",
			}},
		},
		{
			name: "Heading line above the dates",
			text: "Work Experience\nAcme Corp – Developer\n2018-2021\nBuilt APIs.\n2021-2023 Lead, Globex",
			want: []models.Experience{
				{
					Title:       "",
					Company:     models.UnknownCompany,
					StartYear:   2018,
					EndYear:     models.Year(2021),
					Description: "Acme Corp – Developer\nBuilt APIs.",
				},
				{
					Title:     "Lead",
					Company:   "Globex",
					StartYear: 2021,
					EndYear:   models.Year(2023),
				},
			},
		},
		{
			name: "Company keeps text after the first comma",
			text: "Expériences professionnelles\nConsultant, Capgemini, Paris 2016-2018",
			want: []models.Experience{{
				Title:     "Consultant",
				Company:   "Capgemini, Paris",
				StartYear: 2016,
				EndYear:   models.Year(2018),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractExperience(tt.text, vocab.Default()))
		})
	}
}

func TestExtractExperienceIsIdempotent(t *testing.T) {
	v := vocab.Default()
	first := ExtractExperience(jeanDupontCV, v)
	second := ExtractExperience(jeanDupontCV, v)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

// TestExtractEducation tests closed-range education parsing
func TestExtractEducation(t *testing.T) {
	text := `Formation
Master Informatique, Université Paris-Saclay 2014-2016
Licence 2011-présent
Baccalauréat 2011
Compétences
Python 2000-2001`

	got := ExtractEducation(text, vocab.Default())
	assert.Equal(t, []models.Education{{
		Degree:      "Master Informatique",
		Institution: "Université Paris-Saclay",
		StartYear:   2014,
		EndYear:     2016,
	}}, got)
}

func TestExtractEducationMissingInstitution(t *testing.T) {
	got := ExtractEducation("Education\n2008-2012 BSc Computer Science", vocab.Default())
	require.Len(t, got, 1)
	assert.Equal(t, "BSc Computer Science", got[0].Degree)
	assert.Equal(t, models.UnknownInstitution, got[0].Institution)
}

func TestSplitHeading(t *testing.T) {
	title, company := splitHeading("Developer,  ", models.UnknownCompany)
	assert.Equal(t, "Developer", title)
	assert.Equal(t, models.UnknownCompany, company)
}
