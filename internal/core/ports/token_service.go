package ports

import (
	"time"

	"github.com/99minutos/account-service/internal/core/domain"
)

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(accountID int64, role domain.Role) (string, error)
	IssueWithTTL(accountID int64, role domain.Role, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenInvalid for malformed, forged or expired tokens.
	Verify(token string) (domain.Identity, error)
}
