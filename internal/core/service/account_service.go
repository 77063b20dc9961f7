package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/pkg/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// AccountService implements registration, login and profile self-service on
// top of the credential store, password hasher and token service.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates a user-role account and returns a token for it.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrMissingFields
	}

	created, err := s.create(ctx, input.Username, input.Email, input.Password, domain.RoleUser)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindConflict:
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		case domain.KindBadRequest:
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			s.logger.Error().Err(err).Msg("registration failed")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account registered")

	return &ports.AuthResult{Token: token, Account: created.Public()}, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrMissingCredentials
	}

	account, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: find account: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, input.Password, account.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.Debug().Int64("account_id", account.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{Token: token, Account: account.Public()}, nil
}

func (s *AccountService) GetProfile(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	pub := account.Public()
	return &pub, nil
}

// ListAccounts returns every account in store order. Callers gate it on the
// admin role.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	for i := range accounts {
		accounts[i] = accounts[i].Public()
	}
	return accounts, nil
}

// UpdateProfile changes username, email and/or password. The role is never
// touched and no new token is issued.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID int64, input ports.UpdateProfileInput) error {
	fields := domain.AccountUpdate{Username: input.Username, Email: input.Email}
	if input.Password != "" {
		hash, err := s.hasher.Hash(ctx, input.Password)
		if err != nil {
			return err
		}
		fields.PasswordHash = hash
	}
	if fields.Empty() {
		return domain.ErrNoFieldsToUpdate
	}

	n, err := s.repo.Update(ctx, accountID, fields)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	s.logger.Info().Int64("account_id", accountID).Msg("profile updated")
	return nil
}

// DeleteAccount hard-deletes the caller's own account. Tokens already issued
// stay valid until they expire.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID int64) error {
	n, err := s.repo.Delete(ctx, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	metrics.AccountsDeletedTotal.Inc()
	s.logger.Info().Int64("account_id", accountID).Msg("account deleted")
	return nil
}

// Provision creates an account with an explicit role. It is the only path
// that can create an admin.
func (s *AccountService) Provision(ctx context.Context, input ports.ProvisionInput) (*domain.Account, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	created, err := s.create(ctx, input.Username, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("account_id", created.ID).Str("role", string(created.Role)).Msg("account provisioned")
	pub := created.Public()
	return &pub, nil
}

func (s *AccountService) create(ctx context.Context, username, email, password string, role domain.Role) (*domain.Account, error) {
	_, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return nil, domain.ErrAccountExists
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same identity.
		if errors.Is(err, domain.ErrIdentityInUse) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}
