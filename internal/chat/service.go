package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
	"github.com/medlens/medlens/internal/llm"
	"github.com/medlens/medlens/internal/repository"
)

// excerptLen caps how much extracted text is embedded as report context.
const excerptLen = 500

// Service answers free-text medical queries, optionally grounded in a stored
// report. It holds no conversation state: the full history arrives with every
// request and the apparent memory is the client replaying its transcript.
type Service struct {
	reportRepo repository.ReportRepository
	completer  llm.Completer
	logger     *slog.Logger
}

func NewService(reportRepo repository.ReportRepository, completer llm.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reportRepo: reportRepo, completer: completer, logger: logger}
}

// AnswerRequest is one stateless question turn.
type AnswerRequest struct {
	Query    string
	ReportID *primitive.ObjectID
	Language string
	History  []entity.ChatMessage
}

// Answer builds a single outbound instruction from the optional report
// context, the replayed history, and the current question. A missing or
// unknown report id degrades to an uncontexted answer.
func (s *Service) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", common.InvalidInputError("query is required")
	}
	if req.Language == "" {
		req.Language = "English"
	}

	var reportContext string
	if req.ReportID != nil {
		rep, err := s.reportRepo.GetByID(ctx, *req.ReportID)
		if err != nil {
			s.logger.Warn("chat.report_context_unavailable", "report_id", req.ReportID.Hex(), "error", err)
		} else {
			reportContext = buildReportContext(rep)
		}
	}

	prompt := llm.BuildChatPrompt(req.Query, reportContext, req.Language, req.History)
	answer, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("chat.completion_failed", "error", err)
		return "", common.InternalError("chat completion failed", err)
	}

	s.logger.Info("chat.answer.ok",
		"history_turns", len(req.History),
		"has_report_context", reportContext != "",
		"language", req.Language,
	)
	return answer, nil
}

func buildReportContext(rep *entity.Report) string {
	var conditions, medications []string
	if rep.DiseaseAnalysis != nil {
		conditions = rep.DiseaseAnalysis.DiagnosedConditions
	}
	if rep.MedicationAnalysis != nil {
		for _, m := range rep.MedicationAnalysis.Medications {
			medications = append(medications, m.Name)
		}
	}
	excerpt := rep.ExtractedText
	if len(excerpt) > excerptLen {
		excerpt = excerpt[:excerptLen]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient's Diagnosed Conditions: %s\n", strings.Join(conditions, ", "))
	fmt.Fprintf(&b, "Medications: %s\n", strings.Join(medications, ", "))
	fmt.Fprintf(&b, "Report Summary: %s\n", excerpt)
	return b.String()
}
