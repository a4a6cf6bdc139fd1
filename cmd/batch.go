package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/config"
	"github.com/ayoubbkt/airecruitaipme/internal/export"
	"github.com/ayoubbkt/airecruitaipme/internal/ingestion"
	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

var (
	batchJob     jobFlags
	batchOut     string
	gmailSubject string

	batchCmd = &cobra.Command{
		Use:   "batch [DIR]",
		Short: "Rank every résumé in a directory or a Gmail search",
		Long: `Analyze every supported résumé in DIR, or the attachments of Gmail
messages matching --gmail-subject, and write a ranked Excel report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBatch,
	}
)

func init() {
	batchJob.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "report.xlsx", "path of the Excel report")
	batchCmd.Flags().StringVar(&gmailSubject, "gmail-subject", "", "fetch attachments of Gmail messages with this subject")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (gmailSubject == "") {
		return fmt.Errorf("either a directory or --gmail-subject is required")
	}

	job, err := batchJob.job()
	if err != nil {
		return err
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	var docs []ingestion.Document
	if len(args) == 1 {
		docs, err = ingestion.NewFileHandler(args[0]).LoadDocuments()
	} else {
		docs, err = fetchFromGmail(cmd, cfg, logger)
	}
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no supported documents found")
	}

	analyzer, cleanup, err := newAnalyzer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := analyzer.AnalyzeBatch(cmd.Context(), docs, job)
	if err != nil {
		return err
	}

	if err := export.ExportToExcel(report, batchOut); err != nil {
		return err
	}
	logger.Info("report written", zap.String("path", batchOut))

	printRanking(cmd.OutOrStdout(), report)
	return nil
}

// fetchFromGmail downloads matching attachments into the uploads directory
// and loads them back from there
func fetchFromGmail(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) ([]ingestion.Document, error) {
	gmail, err := ingestion.NewGmailHandler(cmd.Context(), ingestion.GmailConfig{
		CredentialsFile: cfg.Gmail.CredentialsFile,
		TokenFile:       cfg.Gmail.TokenFile,
	}, cmd.ErrOrStderr(), cmd.InOrStdin(), logger)
	if err != nil {
		return nil, err
	}

	attachments, err := gmail.FetchAttachments(cmd.Context(), gmailSubject)
	if err != nil {
		return nil, err
	}

	uploads := ingestion.NewFileHandler(cfg.UploadsDir)
	if err := uploads.ClearUploads(); err != nil {
		return nil, err
	}
	for _, doc := range attachments {
		if _, err := uploads.SaveUploadedFile(doc.Name, bytes.NewReader(doc.Content)); err != nil {
			return nil, err
		}
	}
	return uploads.LoadDocuments()
}

// printRanking writes the ranked candidates and the failed documents
func printRanking(w io.Writer, report models.BatchReport) {
	fmt.Fprintf(w, "Analysis %s: %d analyzed, %d failed\n\n", report.ID, len(report.Results), len(report.Failures))
	for i, r := range report.Results {
		fmt.Fprintf(w, "%3d. %-30s %3d  %s\n", i+1, r.FileName, r.Match.Score, orDash(r.Profile.FullName))
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(w, "\nFailed:")
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.FileName, f.Error)
		}
	}
}
