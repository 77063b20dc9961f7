package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/api/middleware"
	"github.com/99minutos/account-service/internal/core/domain"
)

// requester returns the authenticated caller. Routes using it must sit
// behind middleware.Authenticate; a missing identity is reported as 401.
func requester(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrTokenMissing
	}
	return id, nil
}
