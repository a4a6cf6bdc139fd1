package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

var (
	analyzeJob  jobFlags
	analyzeJSON bool

	analyzeCmd = &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze one résumé against a job description",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
)

func init() {
	analyzeJob.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json-output", false, "print the result as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	job, err := analyzeJob.job()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	analyzer, cleanup, err := newAnalyzer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := analyzer.Analyze(cmd.Context(), content, filepath.Ext(args[0]), job)
	if err != nil {
		return err
	}
	result.FileName = filepath.Base(args[0])

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

// printResult writes a human readable summary of one analysis
func printResult(w io.Writer, r models.AnalysisResult) {
	p := r.Profile
	fmt.Fprintf(w, "File:        %s\n", r.FileName)
	fmt.Fprintf(w, "Candidate:   %s\n", orDash(p.FullName))
	fmt.Fprintf(w, "Email:       %s\n", orDash(p.Email))
	fmt.Fprintf(w, "Phone:       %s\n", orDash(p.Phone))
	fmt.Fprintf(w, "Experience:  %d years\n", p.YearsOfExperience)
	fmt.Fprintf(w, "Skills:      %s\n", orDash(strings.Join(p.Skills, ", ")))
	fmt.Fprintf(w, "Match score: %d\n", r.Match.Score)
	fmt.Fprintf(w, "Matched:     %s\n", orDash(strings.Join(r.Match.MatchedSkills, ", ")))
	fmt.Fprintf(w, "Missing:     %s\n", orDash(strings.Join(r.Match.MissingSkills, ", ")))
	if r.Match.Degraded {
		fmt.Fprintln(w, "Semantic matching was unavailable; only exact matches were counted.")
	}

	printList(w, "Strengths", r.Insights.Strengths)
	printList(w, "Weaknesses", r.Insights.Weaknesses)
	printList(w, "Experience", r.Insights.ExperienceInsights)
	printList(w, "Education", r.Insights.EducationInsights)

	questions := make([]string, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = q.Question
	}
	printList(w, "Interview questions", questions)
	printList(w, "Warnings", append(append([]string{}, p.Warnings...), r.Match.Warnings...))
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
