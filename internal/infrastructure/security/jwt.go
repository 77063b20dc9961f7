package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/account-service/internal/core/domain"
)

const issuer = "account-service"

// JWTService implements ports.TokenService with HS256 tokens signed by a
// process-wide secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type accessClaims struct {
	AccountID int64  `json:"uid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService requires a non-empty secret and a positive TTL.
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt: token ttl must be positive, got %s", ttl)
	}
	return &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the account using the configured TTL.
func (s *JWTService) Issue(accountID int64, role domain.Role) (string, error) {
	return s.IssueWithTTL(accountID, role, s.ttl)
}

func (s *JWTService) IssueWithTTL(accountID int64, role domain.Role, ttl time.Duration) (string, error) {
	now := s.now()
	claims := accessClaims{
		AccountID: accountID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(token string) (domain.Identity, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Identity{}, domain.WithCause(domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.AccountID <= 0 || !domain.Role(claims.Role).Valid() {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	return domain.Identity{AccountID: claims.AccountID, Role: domain.Role(claims.Role)}, nil
}
