package auth_test

import (
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/auth"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockUserRepository struct {
	users  map[int64]*auth.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*auth.User), nextID: 1}
}

func (m *mockUserRepository) Create(u *auth.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return internal.ErrDuplicateEmail
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByEmail(email string) (*auth.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(id int64) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

var _ = Describe("Auth Service", func() {
	const secret = "test-signing-secret"

	var (
		repo    *mockUserRepository
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		tokens = auth.NewJWTTokenGenerator(secret, 2*time.Hour, clock.System())
		service = auth.NewService(repo, tokens, bcrypt.MinCost, slog.Default())
	})

	register := func(email, password string) *auth.User {
		user, err := service.Register(auth.RegisterDTO{
			Username: "sunil",
			Email:    email,
			Password: password,
		})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("Register", func() {
		It("should store a bcrypt hash, never the password", func() {
			user := register("sunil@sterlingsteels.com", "correct-horse")

			Expect(user.PasswordHash).NotTo(Equal("correct-horse"))
			Expect(bcrypt.CompareHashAndPassword(
				[]byte(user.PasswordHash), []byte("correct-horse"))).To(Succeed())
		})

		It("should reject a duplicate email", func() {
			register("sunil@sterlingsteels.com", "correct-horse")

			_, err := service.Register(auth.RegisterDTO{
				Username: "other",
				Email:    "sunil@sterlingsteels.com",
				Password: "different-pw",
			})
			Expect(err).To(MatchError(internal.ErrDuplicateEmail))
		})

		It("should reject a short password", func() {
			_, err := service.Register(auth.RegisterDTO{
				Username: "sunil",
				Email:    "sunil@sterlingsteels.com",
				Password: "short",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a malformed email", func() {
			_, err := service.Register(auth.RegisterDTO{
				Username: "sunil",
				Email:    "not-an-address",
				Password: "correct-horse",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			register("sunil@sterlingsteels.com", "correct-horse")
		})

		It("should issue a token whose claims identify the user", func() {
			resp, err := service.Login(auth.LoginDTO{
				Email:    "sunil@sterlingsteels.com",
				Password: "correct-horse",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.User.Email).To(Equal("sunil@sterlingsteels.com"))

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(resp.User.ID))
			Expect(claims.Email).To(Equal("sunil@sterlingsteels.com"))
		})

		It("should reject a wrong password with invalid credentials", func() {
			_, err := service.Login(auth.LoginDTO{
				Email:    "sunil@sterlingsteels.com",
				Password: "wrong-password",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should return the same error for an unknown email", func() {
			_, err := service.Login(auth.LoginDTO{
				Email:    "nobody@sterlingsteels.com",
				Password: "correct-horse",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should reject an expired token", func() {
			past := clock.Fixed(time.Now().Add(-3 * time.Hour))
			expiredGen := auth.NewJWTTokenGenerator(secret, 2*time.Hour, past)

			token, err := expiredGen.GenerateAccessToken(1, "sunil@sterlingsteels.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})

		It("should reject a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator("other-secret", 2*time.Hour, clock.System())

			token, err := otherGen.GenerateAccessToken(1, "sunil@sterlingsteels.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not.a.jwt")
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("Profile", func() {
		It("should return the stored user", func() {
			user := register("sunil@sterlingsteels.com", "correct-horse")

			found, err := service.Profile(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Username).To(Equal("sunil"))
		})

		It("should map a missing user to not found", func() {
			_, err := service.Profile(999)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})
})
