package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/internal/auth"
	"github.com/medlens/medlens/internal/chat"
	"github.com/medlens/medlens/internal/entity"
	"github.com/medlens/medlens/internal/reports"
)

// ReportService is the orchestrator surface the handlers depend on.
type ReportService interface {
	Submit(ctx context.Context, req reports.SubmitRequest) (*entity.Report, error)
	Get(ctx context.Context, id primitive.ObjectID) (*entity.Report, error)
	List(ctx context.Context, userID *primitive.ObjectID) ([]*entity.Report, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Translate(ctx context.Context, id primitive.ObjectID, targetLanguage string) (*reports.TranslationResult, error)
}

// ChatService answers stateless conversational queries.
type ChatService interface {
	Answer(ctx context.Context, req chat.AnswerRequest) (string, error)
}

// AuthService issues and verifies bearer credentials.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Credentials, error)
	Login(ctx context.Context, email, password string) (*auth.Credentials, error)
	VerifyToken(token string) (primitive.ObjectID, error)
}
