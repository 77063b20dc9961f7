package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/pkg/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

const identityKey = "identity"

// Authenticate verifies the bearer token and stores the caller's identity on
// the request context. It must run before any authorization gate.
func Authenticate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, token, _ := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			token = strings.TrimSpace(token)
			if token == "" {
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "missing_token").Inc()
				return domain.ErrTokenMissing
			}
			if !strings.EqualFold(scheme, "bearer") {
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "invalid_token").Inc()
				return domain.ErrTokenInvalid
			}

			id, err := tokens.Verify(token)
			if err != nil {
				metrics.GateDenialsTotal.WithLabelValues("authenticate", "invalid_token").Inc()
				return err
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
