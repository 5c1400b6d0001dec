package reports

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
	"github.com/medlens/medlens/internal/extract"
	"github.com/medlens/medlens/internal/repository"
)

// Failure messages persisted on the report record and surfaced to callers.
const (
	ErrMsgUnreadableReport       = "Could not extract text from the file"
	ErrMsgUnreadablePrescription = "Could not read prescription"
)

// AnalysisGenerator is what the orchestrator needs from the reasoning side.
// *llm.Generator satisfies it.
type AnalysisGenerator interface {
	GenerateDiseaseAnalysis(ctx context.Context, text, language string) (*entity.DiseaseAnalysis, error)
	GenerateMedicationAnalysis(ctx context.Context, text, language string) (*entity.MedicationAnalysis, error)
	Translate(ctx context.Context, content, targetLanguage string) (string, error)
	CleanPDFText(ctx context.Context, pdfText string) (string, error)
}

// Service coordinates extraction, analysis generation, and persistence to
// turn an uploaded file into a stored, queryable report.
type Service struct {
	reportRepo repository.ReportRepository
	extractor  extract.TextExtractor
	generator  AnalysisGenerator
	logger     *slog.Logger
}

func NewService(reportRepo repository.ReportRepository, extractor extract.TextExtractor, generator AnalysisGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		reportRepo: reportRepo,
		extractor:  extractor,
		generator:  generator,
		logger:     logger,
	}
}

// SubmitRequest carries one uploaded file through the pipeline.
type SubmitRequest struct {
	FilePath         string
	OriginalFileName string
	ReportType       constants.ReportType
	Language         string
	UserID           *primitive.ObjectID
	SessionID        string
}

// Submit runs the full pipeline: create a processing record, extract text,
// generate both analyses, complete the record. The placeholder is created
// before extraction so a mid-pipeline failure leaves a discoverable failed
// record. The temporary upload is removed on every path.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*entity.Report, error) {
	defer s.removeUpload(req.FilePath)

	if req.Language == "" {
		req.Language = constants.DefaultLanguage
	}
	if req.ReportType == "" {
		req.ReportType = constants.ReportTypeDigital
	}
	fileExt := strings.ToLower(filepath.Ext(req.OriginalFileName))

	rec, err := s.reportRepo.Create(ctx, &entity.Report{
		UserID:           req.UserID,
		SessionID:        req.SessionID,
		ReportType:       req.ReportType,
		OriginalFileName: req.OriginalFileName,
		FileType:         fileExt,
		Language:         req.Language,
	})
	if err != nil {
		return nil, common.InternalError("create report record", err)
	}

	s.logger.Info("reports.submit.start",
		"report_id", rec.ID.Hex(),
		"report_type", req.ReportType,
		"file_ext", fileExt,
		"language", req.Language,
	)

	minLen := constants.MinReportTextLen
	failMsg := ErrMsgUnreadableReport
	if req.ReportType == constants.ReportTypeHandwritten {
		minLen = constants.MinPrescriptionTextLen
		failMsg = ErrMsgUnreadablePrescription
	}

	res, err := s.extractor.Extract(ctx, req.FilePath)
	text := strings.TrimSpace(res.Text)
	if err != nil || len(text) < minLen {
		if err != nil {
			s.logger.Warn("reports.submit.extract_failed", "report_id", rec.ID.Hex(), "error", err)
		} else {
			s.logger.Warn("reports.submit.extract_too_short", "report_id", rec.ID.Hex(), "chars", len(text))
		}
		if mErr := s.reportRepo.MarkFailed(ctx, rec.ID, failMsg); mErr != nil {
			s.logger.Error("reports.submit.mark_failed_error", "report_id", rec.ID.Hex(), "error", mErr)
		}
		return nil, common.ExtractionError(failMsg)
	}

	// A digital PDF text layer goes through one model cleanup pass. Failures
	// here are non-fatal: the raw layer is already above the threshold.
	if res.Method == "pdf-text" {
		if cleaned, cErr := s.generator.CleanPDFText(ctx, text); cErr != nil {
			s.logger.Warn("reports.submit.pdf_cleanup_failed", "report_id", rec.ID.Hex(), "error", cErr)
		} else if c := strings.TrimSpace(cleaned); c != "" {
			text = c
		}
	}

	// Fan out both analyses: both must succeed, first error aborts the pair.
	// The calls keep running if the client hangs up; there is no cancellation
	// propagation once they are issued.
	var (
		disease    *entity.DiseaseAnalysis
		medication *entity.MedicationAnalysis
	)
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		var gErr error
		disease, gErr = s.generator.GenerateDiseaseAnalysis(gctx, text, req.Language)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		medication, gErr = s.generator.GenerateMedicationAnalysis(gctx, text, req.Language)
		return gErr
	})
	if err := g.Wait(); err != nil {
		// The record stays in "processing"; callers see a server error and
		// can inspect or resubmit.
		s.logger.Error("reports.submit.generation_failed", "report_id", rec.ID.Hex(), "error", err)
		return nil, common.InternalError("analysis generation failed", err)
	}

	updated, err := s.reportRepo.Complete(ctx, rec.ID, text, disease, medication)
	if err != nil {
		s.logger.Error("reports.submit.complete_failed", "report_id", rec.ID.Hex(), "error", err)
		return nil, common.InternalError("persist analysis", err)
	}

	s.logger.Info("reports.submit.ok",
		"report_id", updated.ID.Hex(),
		"method", res.Method,
		"pages", res.Pages,
		"conditions", len(disease.DiagnosedConditions),
		"medications", len(medication.Medications),
	)
	return updated, nil
}

// Get returns the full record.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*entity.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// List returns the caller's records, newest first, without extractedText.
// A nil userID lists all records (anonymous caller context).
func (s *Service) List(ctx context.Context, userID *primitive.ObjectID) ([]*entity.Report, error) {
	return s.reportRepo.List(ctx, userID)
}

// Delete removes the record; unknown ids surface as not-found.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("reports.delete.ok", "report_id", id.Hex())
	return nil
}

func (s *Service) removeUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("reports.upload_cleanup_failed", "path", path, "error", err)
	}
}
