package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

func testReport() models.BatchReport {
	return models.BatchReport{
		ID: "batch-1",
		Job: models.JobDescription{
			Title:          "Software Engineer",
			Description:    "Test job",
			RequiredSkills: []string{"Go", "SQL"},
		},
		Results: []models.AnalysisResult{
			{
				FileName: "alice.pdf",
				Profile:  models.CandidateProfile{FullName: "Alice Martin", Email: "alice@example.com", YearsOfExperience: 6},
				Match:    models.MatchResult{MatchedSkills: []string{"go", "sql"}, MissingSkills: []string{}, Score: 100},
				Insights: models.Insights{
					Strengths:  []string{"Strong match"},
					Weaknesses: []string{"None noted"},
				},
				Questions: []models.InterviewQuestion{{Question: "Why Go?", Rationale: "r"}},
			},
			{
				FileName: "bob.docx",
				Match:    models.MatchResult{MatchedSkills: []string{"go"}, MissingSkills: []string{"SQL"}, Score: 50, Degraded: true},
			},
		},
		Failures:  []models.BatchFailure{{FileName: "scan.pdf", Error: "no text"}},
		Timestamp: "2026-01-02T03:04:05Z",
	}
}

// TestExportToExcel_EnsuresXlsxExtension tests that .xlsx extension is added if missing
func TestExportToExcel_EnsuresXlsxExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test_report")
	require.NoError(t, ExportToExcel(testReport(), outputPath))

	_, err := os.Stat(outputPath + ".xlsx")
	assert.NoError(t, err)
}

// TestExportToExcel_HandlesExistingXlsxExtension tests that existing .xlsx extension is preserved
func TestExportToExcel_HandlesExistingXlsxExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test_report.XLSX")
	require.NoError(t, ExportToExcel(testReport(), outputPath))

	_, err := os.Stat(outputPath)
	assert.NoError(t, err)
	_, err = os.Stat(outputPath + ".xlsx")
	assert.True(t, os.IsNotExist(err))
}

// TestExportToExcel_EmptyResults tests export with empty results
func TestExportToExcel_EmptyResults(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_report.xlsx")
	report := models.BatchReport{ID: "empty", Job: models.JobDescription{Title: "Test Job"}}
	require.NoError(t, ExportToExcel(report, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SummarySheet, CandidatesSheet, DetailsSheet}, f.GetSheetList())
}

// TestWriteContents tests the ranked and failure sheets
func TestWriteContents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet, DetailsSheet, FailuresSheet}, f.GetSheetList())

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{sheet: CandidatesSheet, cell: "A1", want: "Rank"},
		{sheet: CandidatesSheet, cell: "B2", want: "alice.pdf"},
		{sheet: CandidatesSheet, cell: "E2", want: "100"},
		{sheet: CandidatesSheet, cell: "G2", want: "go, sql"},
		{sheet: CandidatesSheet, cell: "A3", want: "2"},
		{sheet: CandidatesSheet, cell: "H3", want: "SQL"},
		{sheet: CandidatesSheet, cell: "I3", want: "yes"},
		{sheet: DetailsSheet, cell: "B2", want: "Alice Martin"},
		{sheet: DetailsSheet, cell: "C2", want: "Strengths"},
		{sheet: DetailsSheet, cell: "D2", want: "• Strong match"},
		{sheet: FailuresSheet, cell: "A2", want: "scan.pdf"},
		{sheet: FailuresSheet, cell: "B2", want: "no text"},
		{sheet: SummarySheet, cell: "B3", want: "batch-1"},
		{sheet: SummarySheet, cell: "B4", want: "Software Engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(tt.sheet, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBandIndex(t *testing.T) {
	assert.Equal(t, 0, bandIndex(100))
	assert.Equal(t, 0, bandIndex(90))
	assert.Equal(t, 1, bandIndex(89))
	assert.Equal(t, 2, bandIndex(50))
	assert.Equal(t, 3, bandIndex(49))
	assert.Equal(t, 3, bandIndex(0))
}
