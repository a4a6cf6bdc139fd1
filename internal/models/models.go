package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// UnknownCompany is used when an experience line has no company part
	UnknownCompany = "Unknown company"
	// UnknownInstitution is used when an education line has no institution part
	UnknownInstitution = "Unknown institution"
	// OngoingLabel is the serialized form of an open-ended end year
	OngoingLabel = "ongoing"
)

// JobDescription represents a job posting with the skills it asks for
type JobDescription struct {
	Title           string   `json:"title"`
	Description     string   `json:"description" validate:"required"`
	RequiredSkills  []string `json:"required_skills" validate:"dive,required"`
	PreferredSkills []string `json:"preferred_skills" validate:"dive,required"`
}

// EndYear is the end of an experience range: either a year or ongoing
type EndYear struct {
	Year    int
	Ongoing bool
}

// Year returns a closed end year
func Year(y int) EndYear {
	return EndYear{Year: y}
}

// Ongoing returns the open-ended end year sentinel
func Ongoing() EndYear {
	return EndYear{Ongoing: true}
}

// Resolve returns the numeric end year, using currentYear for ongoing ranges
func (e EndYear) Resolve(currentYear int) int {
	if e.Ongoing {
		return currentYear
	}
	return e.Year
}

func (e EndYear) String() string {
	if e.Ongoing {
		return OngoingLabel
	}
	return fmt.Sprintf("%d", e.Year)
}

// MarshalJSON encodes ongoing as a string and closed years as numbers
func (e EndYear) MarshalJSON() ([]byte, error) {
	if e.Ongoing {
		return json.Marshal(OngoingLabel)
	}
	return json.Marshal(e.Year)
}

// UnmarshalJSON accepts either a number or the ongoing label
func (e *EndYear) UnmarshalJSON(data []byte) error {
	var year int
	if err := json.Unmarshal(data, &year); err == nil {
		*e = Year(year)
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("end year must be a number or %q: %w", OngoingLabel, err)
	}
	if !strings.EqualFold(label, OngoingLabel) {
		return fmt.Errorf("unknown end year label %q", label)
	}
	*e = Ongoing()
	return nil
}

// Experience is one work history record in document order
type Experience struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	StartYear   int     `json:"start_date"`
	EndYear     EndYear `json:"end_date"`
	Description string  `json:"description"`
}

// Education is one education record with a closed year range
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartYear   int    `json:"start_year"`
	EndYear     int    `json:"end_year"`
}

// CandidateProfile holds the structured fields extracted from a résumé
type CandidateProfile struct {
	FullName          string       `json:"full_name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	Experience        []Experience `json:"experience"`
	Education         []Education  `json:"education"`
	Skills            []string     `json:"skills"`
	YearsOfExperience int          `json:"years_of_experience"`
	Warnings          []string     `json:"warnings,omitempty"`
}

// MatchResult is the outcome of matching candidate skills against a job
type MatchResult struct {
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Score         int      `json:"match_score"`
	Degraded      bool     `json:"degraded,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Insights are the natural-language findings about a candidate
type Insights struct {
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	ExperienceInsights []string `json:"experience_insights"`
	EducationInsights  []string `json:"education_insights"`
}

// InterviewQuestion is a suggested question with the reason to ask it
type InterviewQuestion struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}

// AnalysisResult bundles everything produced for one résumé
type AnalysisResult struct {
	FileName  string              `json:"file_name,omitempty"`
	Profile   CandidateProfile    `json:"profile"`
	Match     MatchResult         `json:"match"`
	Insights  Insights            `json:"insights"`
	Questions []InterviewQuestion `json:"interview_questions"`
}

// BatchStatus values
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// BatchStatus reports the progress of a batch analysis
type BatchStatus struct {
	ID        string  `json:"analysis_id"`
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Failed    int     `json:"failed"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
}

// BatchFailure records a document that could not be analyzed
type BatchFailure struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// BatchReport is the full outcome of a batch analysis
type BatchReport struct {
	ID        string           `json:"analysis_id"`
	Job       JobDescription   `json:"job"`
	Results   []AnalysisResult `json:"results"`
	Failures  []BatchFailure   `json:"failures,omitempty"`
	Timestamp string           `json:"timestamp"`
}
