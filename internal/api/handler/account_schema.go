package handler

import "github.com/99minutos/account-service/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (registerRequest) validationError() error { return domain.ErrMissingFields }

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (loginRequest) validationError() error { return domain.ErrMissingCredentials }

// updateProfileRequest fields are all optional; at least one must be set.
type updateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type authResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    domain.Account `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
