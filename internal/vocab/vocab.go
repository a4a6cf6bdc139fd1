// Package vocab holds the fixed keyword lists and templates the analysis
// pipeline works from. Defaults ship with the binary; a YAML file can
// override any list.
package vocab

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a question pattern with the reason an interviewer would ask it.
// Placeholders: {skill}, {alternative_skill}, {company}, {title},
// {activity}, {job_requirement}.
type Template struct {
	Text      string `yaml:"template"`
	Rationale string `yaml:"rationale"`
}

// Templates groups question templates by category
type Templates struct {
	Technical   []Template `yaml:"technical"`
	Experience  []Template `yaml:"experience"`
	SoftSkills  []Template `yaml:"soft_skills"`
	JobSpecific []Template `yaml:"job_specific"`
}

// Phrases are the fallback fragments used when a template slot has no data
type Phrases struct {
	AlternativeSkill string `yaml:"alternative_skill"`
	OtherSkills      string `yaml:"other_skills"`
	Company          string `yaml:"company"`
	Title            string `yaml:"title"`
	Activity         string `yaml:"activity"`
}

// Vocabulary is the complete set of configuration data used by the core
type Vocabulary struct {
	Skills []string `yaml:"skills"`

	ExperienceHeaders []string `yaml:"experience_headers"`
	ExperienceFooters []string `yaml:"experience_footers"`
	EducationHeaders  []string `yaml:"education_headers"`
	EducationFooters  []string `yaml:"education_footers"`

	Industries              []string `yaml:"industries"`
	ManagementTitles        []string `yaml:"management_titles"`
	SeniorTitle             string   `yaml:"senior_title"`
	AdvancedDegrees         []string `yaml:"advanced_degrees"`
	PrestigiousInstitutions []string `yaml:"prestigious_institutions"`
	TechnicalFields         []string `yaml:"technical_fields"`
	JobRequirements         []string `yaml:"job_requirements"`

	SkillAdjacency map[string][]string `yaml:"skill_adjacency"`

	GenericStrengths          []string `yaml:"generic_strengths"`
	GenericWeaknesses         []string `yaml:"generic_weaknesses"`
	GenericExperienceInsights []string `yaml:"generic_experience_insights"`
	GenericEducationInsights  []string `yaml:"generic_education_insights"`

	Templates Templates `yaml:"templates"`
	Phrases   Phrases   `yaml:"phrases"`
}

// Load reads a YAML file and overlays it on the defaults.
// A missing file yields the defaults.
func Load(path string) (*Vocabulary, error) {
	v := Default()
	if path == "" {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	v.Merge(&override)
	return v, nil
}

// Merge replaces every list of v that is non-empty in other
func (v *Vocabulary) Merge(other *Vocabulary) {
	replace := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	replaceTemplates := func(dst *[]Template, src []Template) {
		if len(src) > 0 {
			*dst = src
		}
	}
	replaceString := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	replace(&v.Skills, other.Skills)
	replace(&v.ExperienceHeaders, other.ExperienceHeaders)
	replace(&v.ExperienceFooters, other.ExperienceFooters)
	replace(&v.EducationHeaders, other.EducationHeaders)
	replace(&v.EducationFooters, other.EducationFooters)
	replace(&v.Industries, other.Industries)
	replace(&v.ManagementTitles, other.ManagementTitles)
	replaceString(&v.SeniorTitle, other.SeniorTitle)
	replace(&v.AdvancedDegrees, other.AdvancedDegrees)
	replace(&v.PrestigiousInstitutions, other.PrestigiousInstitutions)
	replace(&v.TechnicalFields, other.TechnicalFields)
	replace(&v.JobRequirements, other.JobRequirements)
	replace(&v.GenericStrengths, other.GenericStrengths)
	replace(&v.GenericWeaknesses, other.GenericWeaknesses)
	replace(&v.GenericExperienceInsights, other.GenericExperienceInsights)
	replace(&v.GenericEducationInsights, other.GenericEducationInsights)

	if len(other.SkillAdjacency) > 0 {
		v.SkillAdjacency = other.SkillAdjacency
	}

	replaceTemplates(&v.Templates.Technical, other.Templates.Technical)
	replaceTemplates(&v.Templates.Experience, other.Templates.Experience)
	replaceTemplates(&v.Templates.SoftSkills, other.Templates.SoftSkills)
	replaceTemplates(&v.Templates.JobSpecific, other.Templates.JobSpecific)

	replaceString(&v.Phrases.AlternativeSkill, other.Phrases.AlternativeSkill)
	replaceString(&v.Phrases.OtherSkills, other.Phrases.OtherSkills)
	replaceString(&v.Phrases.Company, other.Phrases.Company)
	replaceString(&v.Phrases.Title, other.Phrases.Title)
	replaceString(&v.Phrases.Activity, other.Phrases.Activity)
}
