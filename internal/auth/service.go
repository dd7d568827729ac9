package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sterlingsteels/itdesk/internal"
)

// Repository defines the data access methods for users
type Repository interface {
	Create(u *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
}

type Service struct {
	repo       Repository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
		IsAdmin:      dto.IsAdmin,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks credentials and issues an access token. Lookup and password
// failures collapse into the same error so callers cannot probe which
// emails exist.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

func (s *Service) Profile(userID int64) (*User, error) {
	return s.repo.GetByID(userID)
}
