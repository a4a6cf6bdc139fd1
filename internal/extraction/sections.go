package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/vocab"
)

var (
	experienceDatePattern = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|présent|present)`)
	educationDatePattern  = regexp.MustCompile(`(\d{4})\s*[-–]\s*(\d{4})`)
)

// section returns the trimmed non-empty lines between the first line
// containing a header keyword and the next line containing a footer keyword
func section(text string, headers, footers []string) []string {
	var (
		lines []string
		open  bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if containsAny(lower, headers) {
			open = true
			continue
		}
		if !open {
			continue
		}
		if containsAny(lower, footers) {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ExtractExperience parses the experience section into records, in the
// order their date lines appear
func ExtractExperience(text string, v *vocab.Vocabulary) []models.Experience {
	experiences := []models.Experience{}

	var (
		current     *models.Experience
		description []string
	)
	// lines before the first date line carry over into the first record
	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(description, "\n"))
		experiences = append(experiences, *current)
		current = nil
		description = nil
	}

	for _, line := range section(text, v.ExperienceHeaders, v.ExperienceFooters) {
		m := experienceDatePattern.FindStringSubmatchIndex(line)
		if m == nil {
			description = append(description, line)
			continue
		}
		flush()

		start, _ := strconv.Atoi(line[m[2]:m[3]])
		end := models.Ongoing()
		if y, err := strconv.Atoi(line[m[4]:m[5]]); err == nil {
			end = models.Year(y)
		}

		title, company := splitHeading(headingText(line, m[0], m[1]), models.UnknownCompany)
		current = &models.Experience{
			Title:     title,
			Company:   company,
			StartYear: start,
			EndYear:   end,
		}
	}
	flush()

	return experiences
}

// ExtractEducation parses the education section. Lines without a closed
// year range are skipped.
func ExtractEducation(text string, v *vocab.Vocabulary) []models.Education {
	education := []models.Education{}

	for _, line := range section(text, v.EducationHeaders, v.EducationFooters) {
		m := educationDatePattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}

		start, _ := strconv.Atoi(line[m[2]:m[3]])
		end, _ := strconv.Atoi(line[m[4]:m[5]])
		degree, institution := splitHeading(headingText(line, m[0], m[1]), models.UnknownInstitution)

		education = append(education, models.Education{
			Degree:      degree,
			Institution: institution,
			StartYear:   start,
			EndYear:     end,
		})
	}
	return education
}

// headingText is the text before the date, or after it when the line
// starts with the date
func headingText(line string, dateStart, dateEnd int) string {
	before := strings.TrimSpace(line[:dateStart])
	if before != "" {
		return strings.TrimRight(before, " :|-–,(")
	}
	return strings.TrimLeft(strings.TrimSpace(line[dateEnd:]), " :|-–,)")
}

// splitHeading splits on the first comma
func splitHeading(heading, fallback string) (string, string) {
	parts := strings.SplitN(heading, ",", 2)
	first := strings.TrimSpace(parts[0])
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return first, fallback
	}
	return first, strings.TrimSpace(parts[1])
}
