package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/reports"
)

// ReportHandler owns the report lifecycle routes.
type ReportHandler struct {
	svc     ReportService
	uploads *UploadStore
	logger  *slog.Logger
}

func NewReportHandler(svc ReportService, uploads *UploadStore, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{svc: svc, uploads: uploads, logger: logger}
}

// Analyze handles POST /api/reports/analyze: multipart field "report" plus
// language and reportType form values. The pipeline runs synchronously and
// the completed record is returned.
func (h *ReportHandler) Analyze(c *gin.Context) {
	path, originalName, err := h.uploads.Save(c, "report")
	if err != nil {
		respondError(c, err)
		return
	}

	reportType := constants.ReportType(c.PostForm("reportType"))
	if reportType != constants.ReportTypeHandwritten {
		reportType = constants.ReportTypeDigital
	}

	rep, err := h.svc.Submit(c.Request.Context(), reports.SubmitRequest{
		FilePath:         path,
		OriginalFileName: originalName,
		ReportType:       reportType,
		Language:         c.PostForm("language"),
		UserID:           callerID(c),
		SessionID:        c.PostForm("sessionId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reportId": rep.ID.Hex(), "report": rep})
}

// AnalyzePrescription handles POST /api/prescription/analyze: the same
// pipeline specialized for handwritten input, multipart field
// "prescription", with the lower text-length floor.
func (h *ReportHandler) AnalyzePrescription(c *gin.Context) {
	path, originalName, err := h.uploads.Save(c, "prescription")
	if err != nil {
		respondError(c, err)
		return
	}

	rep, err := h.svc.Submit(c.Request.Context(), reports.SubmitRequest{
		FilePath:         path,
		OriginalFileName: originalName,
		ReportType:       constants.ReportTypeHandwritten,
		Language:         c.PostForm("language"),
		UserID:           callerID(c),
		SessionID:        c.PostForm("sessionId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reportId": rep.ID.Hex(), "report": rep})
}

// Translate handles POST /api/reports/translate/:reportId.
func (h *ReportHandler) Translate(c *gin.Context) {
	id, err := reportID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var body struct {
		TargetLanguage string `json:"targetLanguage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, common.InvalidInputError("targetLanguage is required"))
		return
	}

	res, err := h.svc.Translate(c.Request.Context(), id, body.TargetLanguage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"language":          res.Language,
		"translatedReport1": res.Report1,
		"translatedReport2": res.Report2,
	})
}

// Get handles GET /api/reports/:reportId.
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := reportID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rep, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": rep})
}

// List handles GET /api/reports: the caller's records newest first, without
// the bulky extractedText field. Anonymous callers see all records.
func (h *ReportHandler) List(c *gin.Context) {
	reps, err := h.svc.List(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reps})
}

// Delete handles DELETE /api/reports/:reportId.
func (h *ReportHandler) Delete(c *gin.Context) {
	id, err := reportID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report deleted successfully"})
}

func reportID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		return primitive.NilObjectID, common.NotFoundError("Report not found")
	}
	return id, nil
}
