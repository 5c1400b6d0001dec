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

	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
)

const usersCollection = "users"

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
}

type userRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewUserRepository(db *mongo.Database, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{coll: db.Collection(usersCollection), logger: logger}
}

// EnsureUserIndexes creates the unique email index. Call once at startup.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.InvalidInputError("user already exists")
		}
		r.logger.Error("failed to insert user", "error", err)
		return nil, common.WrapError(err, "insert user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFoundError("user not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by email", "error", err)
		return nil, common.WrapError(err, "get user")
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var u entity.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFoundError("user not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by id", "user_id", id.Hex(), "error", err)
		return nil, common.WrapError(err, "get user")
	}
	return &u, nil
}
