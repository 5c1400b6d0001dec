package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medlens/medlens/internal/entity"
)

// Generator turns raw report text into the two structured analysis records,
// and wraps the translation and PDF-cleanup round trips. All failures are
// terminal: no retry, no partial acceptance.
type Generator struct {
	completer Completer
	logger    *slog.Logger
}

func NewGenerator(c Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{completer: c, logger: logger}
}

// GenerateDiseaseAnalysis requests and parses the disease record.
func (g *Generator) GenerateDiseaseAnalysis(ctx context.Context, text, language string) (*entity.DiseaseAnalysis, error) {
	rid := uuid.New().String()
	start := time.Now()
	g.logger.Info("llm.disease.start", "req_id", rid, "text_len", len(text), "language", language)

	resp, err := g.completer.Complete(ctx, BuildDiseasePrompt(text, language))
	if err != nil {
		g.logger.Error("llm.disease.complete_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("disease analysis completion: %w", err)
	}

	var out entity.DiseaseAnalysis
	if err := ParseValidated(resp, BuildDiseaseAnalysisSchema(), &out); err != nil {
		g.logger.Error("llm.disease.parse_error", "req_id", rid, "error", err,
			"resp_len", len(resp), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("parse disease analysis response: %w", err)
	}

	g.logger.Info("llm.disease.ok", "req_id", rid,
		"conditions", len(out.DiagnosedConditions),
		"elapsed_ms", time.Since(start).Milliseconds())
	return &out, nil
}

// GenerateMedicationAnalysis requests and parses the medication record.
func (g *Generator) GenerateMedicationAnalysis(ctx context.Context, text, language string) (*entity.MedicationAnalysis, error) {
	rid := uuid.New().String()
	start := time.Now()
	g.logger.Info("llm.medication.start", "req_id", rid, "text_len", len(text), "language", language)

	resp, err := g.completer.Complete(ctx, BuildMedicationPrompt(text, language))
	if err != nil {
		g.logger.Error("llm.medication.complete_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("medication analysis completion: %w", err)
	}

	var out entity.MedicationAnalysis
	if err := ParseValidated(resp, BuildMedicationAnalysisSchema(), &out); err != nil {
		g.logger.Error("llm.medication.parse_error", "req_id", rid, "error", err,
			"resp_len", len(resp), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("parse medication analysis response: %w", err)
	}

	g.logger.Info("llm.medication.ok", "req_id", rid,
		"medications", len(out.Medications),
		"elapsed_ms", time.Since(start).Milliseconds())
	return &out, nil
}

// Translate performs a single instruction-completion round trip. The result
// is opaque text; no structural validation is applied.
func (g *Generator) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	resp, err := g.completer.Complete(ctx, BuildTranslationPrompt(content, targetLanguage))
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", targetLanguage, err)
	}
	return resp, nil
}

// CleanPDFText runs the text layer of a digital PDF through the model to
// strip layout noise while keeping every medical detail.
func (g *Generator) CleanPDFText(ctx context.Context, pdfText string) (string, error) {
	resp, err := g.completer.Complete(ctx, BuildPDFCleanupPrompt(pdfText))
	if err != nil {
		return "", fmt.Errorf("pdf text cleanup: %w", err)
	}
	return resp, nil
}
