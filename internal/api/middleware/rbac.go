package middleware

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/pkg/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// RequireRole lets the request through only when the caller holds role.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if id.Role != role {
				metrics.GateDenialsTotal.WithLabelValues("role", "forbidden").Inc()
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}

// OwnerOrAdmin guards routes addressing an account by the path parameter
// param. The target must exist before ownership is compared, so a missing
// account answers 404 even to a caller who could never access it.
func OwnerOrAdmin(accounts ports.AccountReader, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}

			targetID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil {
				metrics.GateDenialsTotal.WithLabelValues("ownership", "not_found").Inc()
				return domain.ErrAccountNotFound
			}

			if _, err := accounts.FindByID(c.Request().Context(), targetID); err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					metrics.GateDenialsTotal.WithLabelValues("ownership", "not_found").Inc()
				}
				return err
			}

			if id.AccountID != targetID && !id.IsAdmin() {
				metrics.GateDenialsTotal.WithLabelValues("ownership", "forbidden").Inc()
				return domain.ErrNotOwner
			}
			return next(c)
		}
	}
}
