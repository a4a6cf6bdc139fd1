package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

// Sheet names of the batch workbook
const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
	DetailsSheet    = "Detailed Analysis"
	FailuresSheet   = "Failures"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// band colors a score the way the ranked sheet does
type band struct {
	label string
	min   int
	color string
}

var bands = []band{
	{label: "Excellent (90-100)", min: 90, color: "C6EFCE"},
	{label: "Good (70-89)", min: 70, color: "FFEB9C"},
	{label: "Fair (50-69)", min: 50, color: "FFC7CE"},
	{label: "Poor (<50)", min: 0, color: "FF9999"},
}

func bandIndex(score int) int {
	for i, b := range bands {
		if score >= b.min {
			return i
		}
	}
	return len(bands) - 1
}

// ExportToExcel writes the batch report workbook to outputPath, adding the
// .xlsx extension when missing
func ExportToExcel(report models.BatchReport, outputPath string) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SaveAs(outputPath); err != nil {
		// Fall back to a buffered write
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}
	return nil
}

// Write streams the workbook for report to w
func Write(w io.Writer, report models.BatchReport) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// Build creates the workbook. Results are expected in rank order.
func Build(report models.BatchReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for _, name := range []string{CandidatesSheet, DetailsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"summary", func() error { return createSummarySheet(f, report) }},
		{"ranked candidates", func() error { return createRankedCandidatesSheet(f, report.Results) }},
		{"detailed analysis", func() error { return createDetailedAnalysisSheet(f, report.Results) }},
	}
	if len(report.Failures) > 0 {
		steps = append(steps, struct {
			name string
			fn   func() error
		}{"failures", func() error { return createFailuresSheet(f, report.Failures) }})
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", step.name, err)
		}
	}
	return f, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func headerStyle(f *excelize.File, size float64, horizontal string, border bool) (int, error) {
	style := &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: size, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "center"},
	}
	if border {
		style.Border = thinBorder
	}
	return f.NewStyle(style)
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f, 11, "center", true)
	if err != nil {
		return err
	}
	for col, header := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(name, 1), header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(name, 1), cell(name, 1), style); err != nil {
			return err
		}
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// createSummarySheet writes job details and score statistics
func createSummarySheet(f *excelize.File, report models.BatchReport) error {
	sheet := SummarySheet
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 60)

	titleStyle, err := headerStyle(f, 14, "left", false)
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	section := func(title string) {
		f.SetCellValue(sheet, cell("A", row), title)
		f.SetCellStyle(sheet, cell("A", row), cell("B", row), titleStyle)
		f.MergeCell(sheet, cell("A", row), cell("B", row))
		row++
	}
	line := func(label string, value any) {
		f.SetCellValue(sheet, cell("A", row), label)
		f.SetCellStyle(sheet, cell("A", row), cell("A", row), labelStyle)
		f.SetCellValue(sheet, cell("B", row), value)
		row++
	}

	section("CV Analysis Report")
	row++
	line("Analysis ID:", report.ID)
	line("Job Title:", report.Job.Title)
	line("Required Skills:", strings.Join(report.Job.RequiredSkills, ", "))
	line("Preferred Skills:", strings.Join(report.Job.PreferredSkills, ", "))
	line("Generated:", report.Timestamp)
	line("Candidates Analyzed:", len(report.Results))
	line("Documents Failed:", len(report.Failures))
	row++

	if len(report.Results) == 0 {
		return nil
	}

	section("Statistics:")
	counts := make([]int, len(bands))
	total := 0
	minScore, maxScore := report.Results[0].Match.Score, report.Results[0].Match.Score
	degraded := 0
	for _, r := range report.Results {
		score := r.Match.Score
		counts[bandIndex(score)]++
		total += score
		minScore = min(minScore, score)
		maxScore = max(maxScore, score)
		if r.Match.Degraded {
			degraded++
		}
	}
	for i, b := range bands {
		line(b.label+":", counts[i])
	}
	row++

	line("Average Score:", fmt.Sprintf("%.2f", float64(total)/float64(len(report.Results))))
	line("Highest Score:", maxScore)
	line("Lowest Score:", minScore)
	line("Score Range:", maxScore-minScore)
	if degraded > 0 {
		line("Degraded Matches:", degraded)
	}
	return nil
}

// createRankedCandidatesSheet lists candidates in rank order, color-coded by score
func createRankedCandidatesSheet(f *excelize.File, results []models.AnalysisResult) error {
	sheet := CandidatesSheet
	widths := map[string]float64{"A": 8, "B": 28, "C": 25, "D": 30, "E": 12, "F": 12, "G": 40, "H": 40, "I": 10}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	headers := []string{"Rank", "File", "Candidate", "Email", "Match Score", "Years", "Matched Skills", "Missing Skills", "Degraded"}
	if err := writeHeaders(f, sheet, headers); err != nil {
		return err
	}

	styles := make([]int, len(bands))
	for i, b := range bands {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{b.color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		styles[i] = style
	}

	for i, r := range results {
		row := i + 2
		values := []any{
			i + 1,
			r.FileName,
			r.Profile.FullName,
			r.Profile.Email,
			r.Match.Score,
			r.Profile.YearsOfExperience,
			strings.Join(r.Match.MatchedSkills, ", "),
			strings.Join(r.Match.MissingSkills, ", "),
			yesNo(r.Match.Degraded),
		}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return err
		}
		f.SetCellStyle(sheet, cell("A", row), cell("I", row), styles[bandIndex(r.Match.Score)])
	}

	if len(results) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:I%d", len(results)+1), []excelize.AutoFilterOptions{})
	}
	return freezeHeader(f, sheet)
}

// createDetailedAnalysisSheet writes insights and interview questions, one
// category per row
func createDetailedAnalysisSheet(f *excelize.File, results []models.AnalysisResult) error {
	sheet := DetailsSheet
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "C", 22)
	f.SetColWidth(sheet, "D", "D", 80)

	if err := writeHeaders(f, sheet, []string{"Rank", "Candidate", "Category", "Details"}); err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	row := 2
	for i, r := range results {
		name := r.Profile.FullName
		if name == "" {
			name = r.FileName
		}

		questions := make([]string, len(r.Questions))
		for j, q := range r.Questions {
			questions[j] = q.Question
		}

		categories := []struct {
			label string
			items []string
		}{
			{"Strengths", r.Insights.Strengths},
			{"Weaknesses", r.Insights.Weaknesses},
			{"Experience", r.Insights.ExperienceInsights},
			{"Education", r.Insights.EducationInsights},
			{"Interview Questions", questions},
			{"Warnings", append(append([]string{}, r.Profile.Warnings...), r.Match.Warnings...)},
		}

		for _, c := range categories {
			if len(c.items) == 0 {
				continue
			}
			values := []any{i + 1, name, c.label, "• " + strings.Join(c.items, "\n• ")}
			if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
				return err
			}
			f.SetCellStyle(sheet, cell("A", row), cell("D", row), wrapStyle)
			f.SetRowHeight(sheet, row, float64(15*min(len(c.items), 10)+5))
			row++
		}
	}

	return freezeHeader(f, sheet)
}

func createFailuresSheet(f *excelize.File, failures []models.BatchFailure) error {
	sheet := FailuresSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 80)

	if err := writeHeaders(f, sheet, []string{"File", "Error"}); err != nil {
		return err
	}
	for i, failure := range failures {
		values := []any{failure.FileName, failure.Error}
		if err := f.SetSheetRow(sheet, cell("A", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
