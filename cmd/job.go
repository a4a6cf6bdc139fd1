package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

// jobFlags collects the job description from command flags
type jobFlags struct {
	file      string
	title     string
	required  []string
	preferred []string
}

func (j *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&j.file, "job-file", "", "file holding the job description (plain text or HTML)")
	cmd.Flags().StringVar(&j.title, "job-title", "", "job title shown in reports")
	cmd.Flags().StringSliceVar(&j.required, "required", nil, "required skills, comma-separated")
	cmd.Flags().StringSliceVar(&j.preferred, "preferred", nil, "preferred skills, comma-separated")
	cmd.MarkFlagRequired("job-file")
}

func (j *jobFlags) job() (models.JobDescription, error) {
	data, err := os.ReadFile(j.file)
	if err != nil {
		return models.JobDescription{}, fmt.Errorf("failed to read job description: %w", err)
	}

	job := models.JobDescription{
		Title:           j.title,
		Description:     strings.TrimSpace(string(data)),
		RequiredSkills:  j.required,
		PreferredSkills: j.preferred,
	}
	if err := validator.New().Struct(job); err != nil {
		return job, fmt.Errorf("invalid job description: %w", err)
	}
	return job, nil
}
