package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
)

type stubReader struct {
	accounts map[int64]domain.Account
	err      error
	calls    int
}

func (s *stubReader) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// withIdentity builds a context as if Authenticate had already run.
func withIdentity(id *domain.Identity, targetID string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/"+targetID, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	if id != nil {
		c.Set(identityKey, *id)
	}
	return c
}

func ok(called *bool) echo.HandlerFunc {
	return func(echo.Context) error {
		*called = true
		return nil
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		id      *domain.Identity
		want    error
		allowed bool
	}{
		{name: "admin passes", id: &domain.Identity{AccountID: 1, Role: domain.RoleAdmin}, allowed: true},
		{name: "user forbidden", id: &domain.Identity{AccountID: 2, Role: domain.RoleUser}, want: domain.ErrAdminRequired},
		{name: "no identity", id: nil, want: domain.ErrTokenMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := RequireRole(domain.RoleAdmin)(ok(&called))(withIdentity(tt.id, "1"))

			if tt.allowed {
				if err != nil || !called {
					t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if called {
				t.Fatalf("next should not run")
			}
		})
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	store := &stubReader{accounts: map[int64]domain.Account{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser},
		2: {ID: 2, Username: "bob", Role: domain.RoleUser},
	}}
	alice := &domain.Identity{AccountID: 1, Role: domain.RoleUser}
	admin := &domain.Identity{AccountID: 9, Role: domain.RoleAdmin}

	tests := []struct {
		name    string
		id      *domain.Identity
		target  string
		want    error
		allowed bool
	}{
		{name: "owner passes", id: alice, target: "1", allowed: true},
		{name: "other user forbidden", id: alice, target: "2", want: domain.ErrNotOwner},
		{name: "admin passes", id: admin, target: "2", allowed: true},
		{name: "missing target before ownership", id: alice, target: "404", want: domain.ErrAccountNotFound},
		{name: "missing target for admin", id: admin, target: "404", want: domain.ErrAccountNotFound},
		{name: "non numeric id", id: alice, target: "abc", want: domain.ErrAccountNotFound},
		{name: "no identity", id: nil, target: "1", want: domain.ErrTokenMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := OwnerOrAdmin(store, "id")(ok(&called))(withIdentity(tt.id, tt.target))

			if tt.allowed {
				if err != nil || !called {
					t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if called {
				t.Fatalf("next should not run")
			}
		})
	}
}

func TestOwnerOrAdmin_StoreFailure(t *testing.T) {
	boom := errors.New("database is locked")
	store := &stubReader{err: boom}

	called := false
	err := OwnerOrAdmin(store, "id")(ok(&called))(withIdentity(&domain.Identity{AccountID: 1, Role: domain.RoleUser}, "1"))

	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal kind")
	}
	if called {
		t.Fatalf("next should not run")
	}
}
