package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/core/ports"
)

type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// SetActive activates or deactivates any account. Deactivation blocks login
// but not tokens issued earlier.
//
// @Summary      Set account activity
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Account id"
// @Param        body  body      setActiveRequest  true  "Activity flag"
// @Success      200   {object}  accountResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/accounts/{id}/active [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acct, err := h.authService.SetActive(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: acct})
}
