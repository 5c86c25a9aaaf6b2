package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/core/domain"
)

// RBAC admits principals whose role is one of allowedRoles. It must run after
// RequireAuth; a request without a principal is treated as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, ok := Principal(c)
			if !ok {
				return reject("require_role", http.StatusUnauthorized, domain.ErrMissingCredential)
			}
			if _, ok := allowed[acct.Role()]; !ok {
				return reject("require_role", http.StatusForbidden, domain.ErrRoleMismatch)
			}
			return next(c)
		}
	}
}
