package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayoubbkt/airecruitaipme/internal/ingestion"
	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

// StartBatch registers a batch of total documents and returns its ID
func (a *Analyzer) StartBatch(ctx context.Context, total int) (string, error) {
	id := uuid.NewString()
	if err := a.progress.Start(ctx, id, total); err != nil {
		return "", fmt.Errorf("failed to register batch: %w", err)
	}
	return id, nil
}

// AnalyzeBatch registers and runs a batch in one call
func (a *Analyzer) AnalyzeBatch(ctx context.Context, docs []ingestion.Document, job models.JobDescription) (models.BatchReport, error) {
	id, err := a.StartBatch(ctx, len(docs))
	if err != nil {
		return models.BatchReport{}, err
	}
	return a.RunBatch(ctx, id, docs, job)
}

// RunBatch analyzes documents concurrently. A failed document is recorded
// in the report and does not stop the others. Progress is counted once
// per document whatever the outcome.
func (a *Analyzer) RunBatch(ctx context.Context, id string, docs []ingestion.Document, job models.JobDescription) (models.BatchReport, error) {
	job, err := PrepareJob(job)
	if err != nil {
		return models.BatchReport{}, err
	}

	a.logger.Info("starting batch", zap.String("analysis_id", id), zap.Int("documents", len(docs)))

	results := make([]*models.AnalysisResult, len(docs))
	failures := make([]error, len(docs))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, doc := range docs {
		g.Go(func() error {
			var res models.AnalysisResult
			err := ctx.Err()
			if err == nil {
				res, err = a.analyze(ctx, doc.Content, doc.Ext, job)
			}

			if err != nil {
				a.logger.Warn("failed to analyze document", zap.String("file", doc.Name), zap.Error(err))
				failures[i] = err
			} else {
				res.FileName = doc.Name
				results[i] = &res
			}

			if perr := a.progress.Increment(context.WithoutCancel(ctx), id, err != nil); perr != nil {
				a.logger.Warn("failed to record progress", zap.String("analysis_id", id), zap.Error(perr))
			}
			return nil
		})
	}
	_ = g.Wait()

	report := models.BatchReport{
		ID:        id,
		Job:       job,
		Results:   []models.AnalysisResult{},
		Timestamp: a.now().Format(time.RFC3339),
	}
	for i, res := range results {
		if res != nil {
			report.Results = append(report.Results, *res)
		} else {
			report.Failures = append(report.Failures, models.BatchFailure{
				FileName: docs[i].Name,
				Error:    failures[i].Error(),
			})
		}
	}
	Rank(report.Results)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if err := a.progress.Complete(ctx, report); err != nil {
		return report, fmt.Errorf("failed to store report: %w", err)
	}

	a.logger.Info("batch completed",
		zap.String("analysis_id", id),
		zap.Int("analyzed", len(report.Results)),
		zap.Int("failed", len(report.Failures)),
	)
	return report, nil
}

// Rank orders results by match score, breaking ties by matched skill
// count, then years of experience, then file name
func Rank(results []models.AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Match.Score != b.Match.Score {
			return a.Match.Score > b.Match.Score
		}
		if len(a.Match.MatchedSkills) != len(b.Match.MatchedSkills) {
			return len(a.Match.MatchedSkills) > len(b.Match.MatchedSkills)
		}
		if a.Profile.YearsOfExperience != b.Profile.YearsOfExperience {
			return a.Profile.YearsOfExperience > b.Profile.YearsOfExperience
		}
		return a.FileName < b.FileName
	})
}
