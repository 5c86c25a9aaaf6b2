package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/palaup/jobboard/internal/core/domain"
)

func TestAdminHandler_SetActive(t *testing.T) {
	stub := &stubAuthService{
		setActiveFn: func(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
			if accountID != "e1" || active {
				t.Fatalf("unexpected args: %s %v", accountID, active)
			}
			acct := employee(accountID)
			acct.Employee.IsActive = false
			return acct, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := newContext(http.MethodPatch, "/admin/accounts/e1/active", `{"is_active":false}`, company("admin"))
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	acct, _ := decode(t, rec)["account"].(map[string]any)
	if acct["is_active"] != false {
		t.Fatalf("unexpected account: %v", acct)
	}
}

func TestAdminHandler_SetActive_MissingFlag(t *testing.T) {
	handler := NewAdminHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPatch, "/admin/accounts/e1/active", `{}`, company("admin"))
	expectStatus(t, handler.SetActive(c), http.StatusBadRequest)
}

func TestAdminHandler_SetActive_Unknown(t *testing.T) {
	stub := &stubAuthService{
		setActiveFn: func(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := newContext(http.MethodPatch, "/admin/accounts/x/active", `{"is_active":true}`, company("admin"))
	if err := handler.SetActive(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
