package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
	"github.com/medlens/medlens/internal/repository"
)

// Service issues bearer credentials and verifies passwords. Tokens are HS256
// with the user id as subject.
type Service struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(userRepo repository.UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
	}
}

// UserSummary is the public view of an account returned with credentials.
type UserSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	PreferredLanguage  string `json:"preferredLanguage,omitempty"`
	AccessibilityNeeds string `json:"accessibilityNeeds,omitempty"`
}

// Credentials bundle a signed token with the account summary.
type Credentials struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type RegisterRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	PreferredLanguage  string `json:"preferredLanguage"`
	AccessibilityNeeds string `json:"accessibilityNeeds"`
}

// Register creates an account and issues credentials. A duplicate email is a
// client error.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Credentials, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.InvalidInputError("name, email and password are required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, common.InvalidInputError("User already exists")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.InternalError("hash password", err)
	}

	user, err := s.userRepo.Create(ctx, &entity.User{
		Name:               req.Name,
		Email:              req.Email,
		Password:           string(hash),
		PreferredLanguage:  req.PreferredLanguage,
		AccessibilityNeeds: req.AccessibilityNeeds,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("auth.register.ok", "user_id", user.ID.Hex())
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewAppError("BAD_CREDENTIALS", "Invalid email or password", common.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.NewAppError("BAD_CREDENTIALS", "Invalid email or password", common.ErrUnauthorized)
	}

	s.logger.Info("auth.login.ok", "user_id", user.ID.Hex())
	return s.issue(user)
}

// VerifyToken parses a bearer token and returns the subject user id.
func (s *Service) VerifyToken(token string) (primitive.ObjectID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return primitive.NilObjectID, common.NewAppError("BAD_TOKEN", "invalid token", common.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return primitive.NilObjectID, common.NewAppError("BAD_TOKEN", "invalid token claims", common.ErrUnauthorized)
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, common.NewAppError("BAD_TOKEN", "invalid token subject", common.ErrUnauthorized)
	}
	return id, nil
}

func (s *Service) issue(user *entity.User) (*Credentials, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, common.InternalError("sign token", err)
	}
	return &Credentials{
		Token: token,
		User: UserSummary{
			ID:                 user.ID.Hex(),
			Name:               user.Name,
			Email:              user.Email,
			PreferredLanguage:  user.PreferredLanguage,
			AccessibilityNeeds: user.AccessibilityNeeds,
		},
	}, nil
}
