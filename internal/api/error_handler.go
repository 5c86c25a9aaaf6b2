package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, guard rejections, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrIdentityNotFound),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrAlreadyApplied):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrJobInactive),
		errors.Is(err, domain.ErrInvalidApplicationStatus):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
