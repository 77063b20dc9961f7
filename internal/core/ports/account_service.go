package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries a partial profile update; empty fields are not changed.
type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
}

// ProvisionInput creates an account with an explicit role.
type ProvisionInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// AuthResult is returned by Register and Login. Account has no password hash.
type AuthResult struct {
	Token   string
	Account domain.Account
}

// AccountService defines the account use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	GetProfile(ctx context.Context, accountID int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateProfile(ctx context.Context, accountID int64, input UpdateProfileInput) error
	DeleteAccount(ctx context.Context, accountID int64) error
	Provision(ctx context.Context, input ProvisionInput) (*domain.Account, error)
}
