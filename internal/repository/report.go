package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
)

const reportsCollection = "reports"

// ReportRepository persists Report documents. The status field starts at
// "processing" on Create and is moved to a terminal state exactly once by
// Complete or MarkFailed; SetTranslation is the only post-terminal mutation.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) (*entity.Report, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Report, error)
	List(ctx context.Context, userID *primitive.ObjectID) ([]*entity.Report, error)
	Complete(ctx context.Context, id primitive.ObjectID, extractedText string, disease *entity.DiseaseAnalysis, medication *entity.MedicationAnalysis) (*entity.Report, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, message string) error
	SetTranslation(ctx context.Context, id primitive.ObjectID, language string, tr entity.TranslatedReport) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reportRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewReportRepository(db *mongo.Database, logger *slog.Logger) ReportRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportRepository{coll: db.Collection(reportsCollection), logger: logger}
}

func (r *reportRepository) Create(ctx context.Context, rep *entity.Report) (*entity.Report, error) {
	now := time.Now().UTC()
	rep.ID = primitive.NewObjectID()
	rep.Status = constants.StatusProcessing
	rep.CreatedAt = now
	rep.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, rep); err != nil {
		r.logger.Error("failed to insert report", "error", err)
		return nil, common.WrapError(err, "insert report")
	}
	return rep, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Report, error) {
	var rep entity.Report
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFoundError("report not found")
	}
	if err != nil {
		r.logger.Error("failed to get report", "report_id", id.Hex(), "error", err)
		return nil, common.WrapError(err, "get report")
	}
	return &rep, nil
}

// List returns reports newest first. The bulky extractedText field is
// excluded by projection and never reaches the caller.
func (r *reportRepository) List(ctx context.Context, userID *primitive.ObjectID) ([]*entity.Report, error) {
	filter := bson.M{}
	if userID != nil {
		filter["userId"] = *userID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"extractedText": 0})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("failed to list reports", "error", err)
		return nil, common.WrapError(err, "list reports")
	}
	defer func() {
		if err := cur.Close(ctx); err != nil {
			r.logger.Warn("report cursor close error", "error", err)
		}
	}()

	var out []*entity.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, common.WrapError(err, "decode reports")
	}
	return out, nil
}

func (r *reportRepository) Complete(ctx context.Context, id primitive.ObjectID, extractedText string, disease *entity.DiseaseAnalysis, medication *entity.MedicationAnalysis) (*entity.Report, error) {
	update := bson.M{"$set": bson.M{
		"extractedText":      extractedText,
		"diseaseAnalysis":    disease,
		"medicationAnalysis": medication,
		"status":             constants.StatusCompleted,
		"updatedAt":          time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rep entity.Report
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFoundError("report not found")
	}
	if err != nil {
		r.logger.Error("failed to complete report", "report_id", id.Hex(), "error", err)
		return nil, common.WrapError(err, "complete report")
	}
	return &rep, nil
}

func (r *reportRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, message string) error {
	update := bson.M{"$set": bson.M{
		"status":    constants.StatusFailed,
		"error":     message,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("failed to mark report failed", "report_id", id.Hex(), "error", err)
		return common.WrapError(err, "mark report failed")
	}
	if res.MatchedCount == 0 {
		return common.NotFoundError("report not found")
	}
	return nil
}

// SetTranslation overwrites the entry for the language. Last write wins; a
// repeated request for the same language fully replaces the previous pair.
func (r *reportRepository) SetTranslation(ctx context.Context, id primitive.ObjectID, language string, tr entity.TranslatedReport) error {
	update := bson.M{"$set": bson.M{
		"translatedReports." + language: tr,
		"updatedAt":                     time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("failed to set translation", "report_id", id.Hex(), "language", language, "error", err)
		return common.WrapError(err, "set translation")
	}
	if res.MatchedCount == 0 {
		return common.NotFoundError("report not found")
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("failed to delete report", "report_id", id.Hex(), "error", err)
		return common.WrapError(err, "delete report")
	}
	if res.DeletedCount == 0 {
		return common.NotFoundError("report not found")
	}
	return nil
}
