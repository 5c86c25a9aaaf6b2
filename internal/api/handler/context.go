package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/core/domain"
)

// principal returns the account attached by the access guard. Reaching a
// guarded handler without one means the route was wired without a guard.
func principal(c echo.Context) (*domain.Account, error) {
	acct, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingCredential.Error())
	}
	return acct, nil
}

// viewer is principal for routes where authentication is optional.
func viewer(c echo.Context) *domain.Account {
	acct, _ := domain.PrincipalFrom(c.Request().Context())
	return acct
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
