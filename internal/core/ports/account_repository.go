package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// AccountReader is the read side of the credential store. Lookups that match
// nothing return domain.ErrAccountNotFound.
type AccountReader interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// AccountRepository defines persistence for accounts. Username and email are
// unique; violations surface as domain.ErrIdentityInUse.
type AccountRepository interface {
	AccountReader
	// Create assigns ID and CreatedAt (when zero) and returns the stored row.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByUsernameOrEmail matches an account holding either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.Account, error)
	// Update writes the non-empty fields and returns the number of rows matched.
	Update(ctx context.Context, id int64, fields domain.AccountUpdate) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	// List returns all accounts in insertion order without password hashes.
	List(ctx context.Context) ([]domain.Account, error)
	Ping(ctx context.Context) error
}
