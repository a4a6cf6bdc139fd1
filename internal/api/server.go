package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/export"
	"github.com/ayoubbkt/airecruitaipme/internal/ingestion"
	"github.com/ayoubbkt/airecruitaipme/internal/models"
	"github.com/ayoubbkt/airecruitaipme/internal/progress"
)

// DefaultMaxUpload bounds multipart request bodies
const DefaultMaxUpload = 32 << 20

// Analyzer is the pipeline the server drives
type Analyzer interface {
	Analyze(ctx context.Context, content []byte, ext string, job models.JobDescription) (models.AnalysisResult, error)
	StartBatch(ctx context.Context, total int) (string, error)
	RunBatch(ctx context.Context, id string, docs []ingestion.Document, job models.JobDescription) (models.BatchReport, error)
	Progress() progress.Store
}

// Server handles HTTP requests
type Server struct {
	analyzer  Analyzer
	validate  *validator.Validate
	logger    *zap.Logger
	maxUpload int64
	batches   sync.WaitGroup
}

// NewServer creates a new API server
func NewServer(analyzer Analyzer, logger *zap.Logger, maxUpload int64) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Server{
		analyzer:  analyzer,
		validate:  validator.New(),
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze-cv", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze-cv-batch", s.handleAnalyzeBatch)
	mux.HandleFunc("GET /api/analysis/{id}/progress", s.handleProgress)
	mux.HandleFunc("GET /api/analysis/{id}/results", s.handleResults)
	mux.HandleFunc("GET /api/analysis/{id}/report", s.handleReport)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// Wait blocks until background batches have finished
func (s *Server) Wait() {
	s.batches.Wait()
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "CV Analyzer",
		"endpoints": map[string]string{
			"POST /api/analyze-cv":            "Analyze one résumé against a job description",
			"POST /api/analyze-cv-batch":      "Start a batch analysis",
			"GET /api/analysis/{id}/progress": "Batch progress",
			"GET /api/analysis/{id}/results":  "Batch results as JSON",
			"GET /api/analysis/{id}/report":   "Batch results as an Excel workbook",
			"GET /health":                     "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze analyzes a single uploaded résumé
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	job, err := s.parseJob(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read file: %v", err))
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), content, filepath.Ext(header.Filename), job)
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("file", header.Filename), zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	result.FileName = filepath.Base(header.Filename)

	s.respondJSON(w, http.StatusOK, result)
}

// handleAnalyzeBatch registers a batch and analyzes it in the background
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	job, err := s.parseJob(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	docs := make([]ingestion.Document, 0, len(files))
	for _, fh := range files {
		doc, err := readDocument(fh)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		docs = append(docs, doc)
	}

	id, err := s.analyzer.StartBatch(r.Context(), len(docs))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The batch outlives the request
	ctx := context.WithoutCancel(r.Context())
	s.batches.Add(1)
	go func() {
		defer s.batches.Done()
		if _, err := s.analyzer.RunBatch(ctx, id, docs, job); err != nil {
			s.logger.Error("batch failed", zap.String("analysis_id", id), zap.Error(err))
		}
	}()

	s.respondJSON(w, http.StatusAccepted, map[string]any{
		"analysis_id": id,
		"total":       len(docs),
		"message":     "Batch analysis started",
	})
}

func readDocument(fh *multipart.FileHeader) (ingestion.Document, error) {
	file, err := fh.Open()
	if err != nil {
		return ingestion.Document{}, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return ingestion.Document{}, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}

	name := filepath.Base(fh.Filename)
	return ingestion.Document{
		Name:    name,
		Ext:     strings.ToLower(filepath.Ext(name)),
		Content: content,
	}, nil
}

// handleProgress reports batch counters
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	status, err := s.analyzer.Progress().Status(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

// handleResults returns the batch report, or the progress while it runs
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.report(r)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	if status != nil {
		s.respondJSON(w, http.StatusAccepted, status)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// handleReport returns the batch report as an Excel workbook
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.report(r)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	if status != nil {
		s.respondJSON(w, http.StatusAccepted, status)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cv_analysis_%s.xlsx"`, report.ID))
	if err := export.Write(w, report); err != nil {
		s.logger.Error("failed to write report", zap.String("analysis_id", report.ID), zap.Error(err))
	}
}

// report loads a completed report. A batch still running yields its status.
func (s *Server) report(r *http.Request) (models.BatchReport, *models.BatchStatus, error) {
	id := r.PathValue("id")
	store := s.analyzer.Progress()

	report, err := store.Report(r.Context(), id)
	if err == nil {
		return report, nil, nil
	}
	if !errors.Is(err, progress.ErrNotFound) {
		return models.BatchReport{}, nil, err
	}

	status, statusErr := store.Status(r.Context(), id)
	if statusErr != nil {
		return models.BatchReport{}, nil, statusErr
	}
	return models.BatchReport{}, &status, nil
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	return r.ParseMultipartForm(s.maxUpload)
}

// parseJob reads the job from the form. job_description is either plain
// text or a JSON job object; skill fields accept repeated or
// comma-separated values.
func (s *Server) parseJob(r *http.Request) (models.JobDescription, error) {
	var job models.JobDescription

	raw := strings.TrimSpace(r.FormValue("job_description"))
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return job, fmt.Errorf("failed to parse job description: %w", err)
		}
	} else {
		job.Description = raw
	}

	if title := strings.TrimSpace(r.FormValue("job_title")); title != "" {
		job.Title = title
	}
	if skills := formList(r, "required_skills"); len(skills) > 0 {
		job.RequiredSkills = skills
	}
	if skills := formList(r, "preferred_skills"); len(skills) > 0 {
		job.PreferredSkills = skills
	}

	if err := s.validate.Struct(job); err != nil {
		return job, fmt.Errorf("invalid job description: %w", err)
	}
	return job, nil
}

func formList(r *http.Request, key string) []string {
	var out []string
	for _, value := range r.MultipartForm.Value[key] {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// statusFor maps pipeline errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrExtractionFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, progress.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
