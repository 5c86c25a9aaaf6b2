package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/palaup/jobboard/internal/api/metrics"
	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

const principalKey = "principal"

// RequireAuth resolves the bearer token into a principal or rejects the
// request with 401. Store failures are passed on to the error handler.
func RequireAuth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, auth, "require_auth"); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireRole is RequireAuth followed by an exact role match. A valid token
// for another role gets 403.
func RequireRole(auth ports.Authenticator, role domain.Role) echo.MiddlewareFunc {
	check := RBAC(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := check(next)
		return func(c echo.Context) error {
			if err := authenticate(c, auth, "require_role"); err != nil {
				return err
			}
			return guarded(c)
		}
	}
}

// OptionalAuth attaches a principal when the token resolves and otherwise
// lets the request through anonymously. It never rejects.
func OptionalAuth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				return next(c)
			}
			acct, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				c.Logger().Debugf("optional auth: proceeding anonymously: %v", err)
				return next(c)
			}
			setPrincipal(c, acct)
			return next(c)
		}
	}
}

// Principal returns the account attached by one of the guards.
func Principal(c echo.Context) (*domain.Account, bool) {
	acct, ok := c.Get(principalKey).(*domain.Account)
	return acct, ok && acct != nil
}

// Token returns the raw bearer token of the request, if well formed.
func Token(c echo.Context) string {
	token, _ := bearerToken(c.Request())
	return token
}

func authenticate(c echo.Context, auth ports.Authenticator, guard string) error {
	token, ok := bearerToken(c.Request())
	if !ok {
		return reject(guard, http.StatusUnauthorized, domain.ErrMissingCredential)
	}

	acct, err := auth.Authenticate(c.Request().Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrIdentityNotFound):
		return reject(guard, http.StatusUnauthorized, err)
	default:
		return err
	}

	setPrincipal(c, acct)
	metrics.PrincipalsResolvedTotal.WithLabelValues(string(acct.Kind)).Inc()
	return nil
}

func setPrincipal(c echo.Context, acct *domain.Account) {
	c.Set(principalKey, acct)
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), acct)))
}

// bearerToken accepts only "Bearer <token>". Any other shape counts as no
// credential at all.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func reject(guard string, code int, reason error) error {
	metrics.GuardRejectionsTotal.WithLabelValues(guard, strings.ReplaceAll(reason.Error(), " ", "_")).Inc()
	return echo.NewHTTPError(code, reason.Error())
}
