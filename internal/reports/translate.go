package reports

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
)

// TranslationResult carries the two freshly translated report sections.
type TranslationResult struct {
	Language string `json:"language"`
	Report1  string `json:"translatedReport1"`
	Report2  string `json:"translatedReport2"`
}

// Translate renders both report sections, translates them concurrently, and
// stores the pair under the target language. All-or-nothing: if either call
// fails, nothing is persisted. A repeated request for the same language
// overwrites the stored entry.
func (s *Service) Translate(ctx context.Context, id primitive.ObjectID, targetLanguage string) (*TranslationResult, error) {
	if strings.TrimSpace(targetLanguage) == "" {
		return nil, common.InvalidInputError("targetLanguage is required")
	}

	rep, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report1Text := RenderDiseaseReport(rep.DiseaseAnalysis)
	report2Text := RenderMedicationReport(rep.MedicationAnalysis)

	var translated1, translated2 string
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		var gErr error
		translated1, gErr = s.generator.Translate(gctx, report1Text, targetLanguage)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		translated2, gErr = s.generator.Translate(gctx, report2Text, targetLanguage)
		return gErr
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("reports.translate.failed", "report_id", id.Hex(), "language", targetLanguage, "error", err)
		return nil, common.InternalError("translation failed", err)
	}

	tr := entity.TranslatedReport{Report1: translated1, Report2: translated2}
	if err := s.reportRepo.SetTranslation(ctx, id, targetLanguage, tr); err != nil {
		return nil, err
	}

	s.logger.Info("reports.translate.ok", "report_id", id.Hex(), "language", targetLanguage)
	return &TranslationResult{Language: targetLanguage, Report1: translated1, Report2: translated2}, nil
}

// RenderDiseaseReport flattens the disease record into the plain-text block
// sent for translation.
func RenderDiseaseReport(d *entity.DiseaseAnalysis) string {
	if d == nil {
		d = &entity.DiseaseAnalysis{}
	}
	var b strings.Builder
	b.WriteString("DISEASE ANALYSIS REPORT:\n")
	fmt.Fprintf(&b, "Diagnosed Conditions: %s\n", strings.Join(d.DiagnosedConditions, ", "))
	fmt.Fprintf(&b, "Causes: %s\n", d.Causes)
	fmt.Fprintf(&b, "Early Symptoms: %s\n", d.EarlySymptoms)
	fmt.Fprintf(&b, "Stages: %s\n", d.Stages)
	fmt.Fprintf(&b, "Future Symptoms: %s\n", d.FutureSymptoms)
	fmt.Fprintf(&b, "Prevention: %s\n", d.Prevention)
	fmt.Fprintf(&b, "What to Eat: %s\n", d.WhatToEat)
	fmt.Fprintf(&b, "What to Avoid: %s\n", d.WhatToAvoid)
	fmt.Fprintf(&b, "How to Cure: %s\n", d.HowToCure)
	fmt.Fprintf(&b, "Healthy Lifestyle: %s\n", d.HealthyLifestyle)
	return b.String()
}

// RenderMedicationReport flattens the medication record, one block per
// medicine, separated by --- markers.
func RenderMedicationReport(m *entity.MedicationAnalysis) string {
	if m == nil || len(m.Medications) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(m.Medications))
	for _, med := range m.Medications {
		var b strings.Builder
		fmt.Fprintf(&b, "Medicine: %s\n", med.Name)
		fmt.Fprintf(&b, "Why Given: %s\n", med.WhyGiven)
		fmt.Fprintf(&b, "Benefits: %s\n", med.Benefits)
		fmt.Fprintf(&b, "Dosage: %s\n", med.Dosage)
		fmt.Fprintf(&b, "Timing: %s\n", med.Timing)
		fmt.Fprintf(&b, "Before/After Food: %s\n", med.BeforeOrAfterFood)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n")
}
