package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/api/metrics"
	"github.com/palaup/jobboard/internal/api/middleware"
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterEmployee creates a job seeker account.
//
// @Summary      Register an employee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerEmployeeRequest  true  "Employee registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register/employee [post]
func (h *AuthHandler) RegisterEmployee(c echo.Context) error {
	var req registerEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.RegisterEmployee(c.Request().Context(), ports.RegisterEmployeeInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Title:    req.Title,
	})
	observeAuth("register_employee", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, Account: res.Account, IsCompany: res.IsCompany})
}

// RegisterCompany creates an employer account.
//
// @Summary      Register a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerCompanyRequest  true  "Company registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register/company [post]
func (h *AuthHandler) RegisterCompany(c echo.Context) error {
	var req registerCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.RegisterCompany(c.Request().Context(), ports.RegisterCompanyInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Industry: req.Industry,
		Location: req.Location,
		Website:  req.Website,
		Phone:    req.Phone,
	})
	observeAuth("register_company", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, Account: res.Account, IsCompany: res.IsCompany})
}

// Login authenticates an employee or a company and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	observeAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, Account: res.Account, IsCompany: res.IsCompany})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Account: acct, IsCompany: acct.IsCompany()})
}

// Logout confirms the client discarded its token. When the denylist is
// enabled the token is also refused from now on.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	err := h.authService.Logout(c.Request().Context(), middleware.Token(c))
	observeAuth("logout", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// ChangePassword replaces the password of the authenticated account.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	acct, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.authService.ChangePassword(c.Request().Context(), acct.ID(), req.CurrentPassword, req.NewPassword)
	observeAuth("change_password", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

func observeAuth(operation string, err error) {
	metrics.AuthAttemptsTotal.WithLabelValues(operation, authResult(err)).Inc()
}

func authResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
