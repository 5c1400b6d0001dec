package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/internal/chat"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
)

// ChatHandler owns POST /api/chat/query.
type ChatHandler struct {
	svc    ChatService
	logger *slog.Logger
}

func NewChatHandler(svc ChatService, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{svc: svc, logger: logger}
}

type chatQueryRequest struct {
	Query               string               `json:"query"`
	ReportID            string               `json:"reportId"`
	Language            string               `json:"language"`
	ConversationHistory []entity.ChatMessage `json:"conversationHistory"`
}

// Query answers a free-text medical question, optionally grounded in a
// stored report. The conversation history arrives with every request; no
// server-side session state exists.
func (h *ChatHandler) Query(c *gin.Context) {
	var body chatQueryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, common.InvalidInputError("invalid request body"))
		return
	}
	if body.Query == "" {
		respondError(c, common.InvalidInputError("Query is required"))
		return
	}

	var reportID *primitive.ObjectID
	if body.ReportID != "" {
		if id, err := primitive.ObjectIDFromHex(body.ReportID); err == nil {
			reportID = &id
		}
	}

	answer, err := h.svc.Answer(c.Request.Context(), chat.AnswerRequest{
		Query:    body.Query,
		ReportID: reportID,
		Language: body.Language,
		History:  body.ConversationHistory,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"query":     body.Query,
		"answer":    answer,
		"language":  body.Language,
		"timestamp": time.Now().UTC(),
	})
}
