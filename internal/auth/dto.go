package auth

import (
	"net/mail"

	"github.com/sterlingsteels/itdesk/internal"
)

type RegisterDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (d RegisterDTO) Validate() error {
	if d.Username == "" || d.Email == "" || d.Password == "" {
		return internal.NewValidationError("username, email and password are required", internal.ErrCodeMissingFields)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationError("invalid email address", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return internal.NewValidationError("email and password are required", internal.ErrCodeMissingFields)
	}
	return nil
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
