package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/core/domain"
)

// errorResponse is the envelope for every API error. Error is only filled
// for internal failures in development.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindBadRequest:      http.StatusBadRequest,
	domain.KindConflict:        http.StatusBadRequest,
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindNotFound:        http.StatusNotFound,
}

// NewHTTPErrorHandler renders domain errors with their status and message,
// echo errors as-is (unmatched routes and methods become "Route not found"), and
// anything else as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, development)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, development bool) (int, errorResponse) {
	var de *domain.Error
	if errors.As(err, &de) {
		if code, ok := kindStatus[de.Kind]; ok {
			return code, errorResponse{Message: de.Message}
		}
		return internalError(err, development)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return he.Code, errorResponse{Message: "Route not found"}
		case http.StatusInternalServerError:
			return internalError(err, development)
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	return internalError(err, development)
}

func internalError(err error, development bool) (int, errorResponse) {
	body := errorResponse{Message: "Something went wrong!"}
	if development {
		body.Error = err.Error()
	}
	return http.StatusInternalServerError, body
}
