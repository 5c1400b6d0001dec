package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/internal/auth"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
)

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return nil, common.InvalidInputError("user already exists")
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, common.NotFoundError("user not found")
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.NotFoundError("user not found")
}

var _ = Describe("Service", func() {
	var (
		repo *fakeUserRepo
		svc  *auth.Service
	)

	ctx := context.Background()

	register := func() *auth.Credentials {
		creds, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Asha",
			Email:    "asha@example.com",
			Password: "s3cret-pass",
		})
		Expect(err).NotTo(HaveOccurred())
		return creds
	}

	BeforeEach(func() {
		repo = newFakeUserRepo()
		svc = auth.NewService(repo, "test-signing-secret", time.Hour, nil)
	})

	Describe("Register", func() {
		It("creates the account and issues a verifiable token", func() {
			creds := register()
			Expect(creds.Token).NotTo(BeEmpty())
			Expect(creds.User.Email).To(Equal("asha@example.com"))
			Expect(creds.User.Name).To(Equal("Asha"))

			id, err := svc.VerifyToken(creds.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(id.Hex()).To(Equal(creds.User.ID))
		})

		It("stores a hash, never the password", func() {
			register()
			stored, err := repo.GetByEmail(ctx, "asha@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Password).NotTo(Equal("s3cret-pass"))
			Expect(stored.Password).To(HavePrefix("$2"))
		})

		It("normalizes the email", func() {
			_, err := svc.Register(ctx, auth.RegisterRequest{
				Name:     "Asha",
				Email:    "  ASHA@Example.COM ",
				Password: "s3cret-pass",
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.GetByEmail(ctx, "asha@example.com")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a duplicate email", func() {
			register()
			_, err := svc.Register(ctx, auth.RegisterRequest{
				Name:     "Other",
				Email:    "asha@example.com",
				Password: "different",
			})
			Expect(err).To(MatchError(common.ErrInvalidInput))
			var appErr *common.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Message).To(Equal("User already exists"))
		})

		It("rejects missing fields", func() {
			_, err := svc.Register(ctx, auth.RegisterRequest{Email: "a@b.c"})
			Expect(err).To(MatchError(common.ErrInvalidInput))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			register()
		})

		It("accepts correct credentials", func() {
			creds, err := svc.Login(ctx, "Asha@Example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Token).NotTo(BeEmpty())
			Expect(creds.User.Email).To(Equal("asha@example.com"))
		})

		It("rejects a wrong password with the same message as an unknown email", func() {
			_, badPass := errMessage(svc.Login(ctx, "asha@example.com", "wrong"))
			_, badMail := errMessage(svc.Login(ctx, "nobody@example.com", "s3cret-pass"))
			Expect(badPass).To(Equal("Invalid email or password"))
			Expect(badMail).To(Equal("Invalid email or password"))
		})

		It("marks credential failures unauthorized", func() {
			_, err := svc.Login(ctx, "asha@example.com", "wrong")
			Expect(err).To(MatchError(common.ErrUnauthorized))
		})
	})

	Describe("VerifyToken", func() {
		It("rejects garbage", func() {
			_, err := svc.VerifyToken("not.a.token")
			Expect(err).To(MatchError(common.ErrUnauthorized))
		})

		It("rejects a token signed with another secret", func() {
			other := auth.NewService(repo, "other-secret", time.Hour, nil)
			creds := register()
			_, err := other.VerifyToken(creds.Token)
			Expect(err).To(MatchError(common.ErrUnauthorized))
		})

		It("rejects an expired token", func() {
			shortLived := auth.NewService(repo, "test-signing-secret", time.Nanosecond, nil)
			creds, err := shortLived.Register(ctx, auth.RegisterRequest{
				Name:     "Brief",
				Email:    "brief@example.com",
				Password: "pw-123456",
			})
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(10 * time.Millisecond)
			_, err = shortLived.VerifyToken(creds.Token)
			Expect(err).To(MatchError(common.ErrUnauthorized))
		})
	})
})

func errMessage(_ *auth.Credentials, err error) (*common.AppError, string) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		return nil, err.Error()
	}
	return appErr, appErr.Message
}
