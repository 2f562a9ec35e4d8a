package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"planhub.org/internal/api"
	"planhub.org/internal/creds"
	"planhub.org/internal/rbac"
)

// stubAPI counts calls and returns canned results.
type stubAPI struct {
	calls int32

	loginPair api.TokenPair
	loginErr  error
	meUser    api.User
	meErr     error
	regErr    error
}

func (s *stubAPI) Login(ctx context.Context, username, password string) (api.TokenPair, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.loginPair, s.loginErr
}

func (s *stubAPI) Register(ctx context.Context, req api.RegisterRequest) error {
	atomic.AddInt32(&s.calls, 1)
	return s.regErr
}

func (s *stubAPI) Me(ctx context.Context) (api.User, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.meUser, s.meErr
}

func newStore(t *testing.T, stub *stubAPI, cs creds.Store) *Store {
	t.Helper()
	s, err := New(stub, cs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestFreshVisitorGoesAnonymousWithoutNetwork(t *testing.T) {
	t.Parallel()

	stub := &stubAPI{}
	s := newStore(t, stub, creds.NewMemory())

	if got := s.State(); got != StateLoading {
		t.Fatalf("initial state = %s, want loading", got)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := s.State(); got != StateAnonymous {
		t.Fatalf("state = %s, want anonymous", got)
	}
	if n := atomic.LoadInt32(&stub.calls); n != 0 {
		t.Fatalf("fresh visitor issued %d network calls, want 0", n)
	}
}

func TestInitRestoresSessionFromStoredToken(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc", Refresh: "ref"})
	stub := &stubAPI{meUser: api.User{ID: 1, Username: "maria", Role: "manager"}}
	s := newStore(t, stub, cs)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("state = %s, want authenticated", got)
	}
	user, ok := s.Principal()
	if !ok || user.Username != "maria" {
		t.Fatalf("principal = %+v, ok=%v", user, ok)
	}
	if got := s.Role(); got != rbac.RoleManager {
		t.Fatalf("role = %s, want manager", got)
	}
}

func TestInitFailureClearsTokens(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc", Refresh: "ref"})
	stub := &stubAPI{meErr: &api.Error{Kind: api.KindUnauthorized, Status: 401, Detail: "bad token"}}
	s := newStore(t, stub, cs)

	if err := s.Init(context.Background()); err == nil {
		t.Fatal("expected Init to fail")
	}
	if got := s.State(); got != StateAnonymous {
		t.Fatalf("state = %s, want anonymous", got)
	}
	pair, _ := cs.Load()
	if pair.Access != "" || pair.Refresh != "" {
		t.Fatalf("tokens must be cleared after failed restore: %+v", pair)
	}
}

func TestLoginPersistsTokensAndLoadsProfile(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	stub := &stubAPI{
		loginPair: api.TokenPair{Access: "acc", Refresh: "ref"},
		meUser:    api.User{ID: 2, Username: "ade", Role: "admin"},
	}
	s := newStore(t, stub, cs)

	if err := s.Login(context.Background(), "ade", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	pair, _ := cs.Load()
	if pair.Access != "acc" || pair.Refresh != "ref" {
		t.Fatalf("tokens not persisted: %+v", pair)
	}
	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}
	if !s.CanManageUsers() {
		t.Fatal("admin should manage users")
	}
}

func TestLoginFailureSurfacesDetailAndKeepsState(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	stub := &stubAPI{loginErr: &api.Error{
		Kind:   api.KindUnauthorized,
		Status: 401,
		Detail: "No active account found with the given credentials",
	}}
	s := newStore(t, stub, cs)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	err := s.Login(context.Background(), "ade", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if got := err.Error(); got != "No active account found with the given credentials" {
		t.Fatalf("surfaced message = %q", got)
	}
	if got := s.State(); got != StateAnonymous {
		t.Fatalf("state = %s, want prior state kept (anonymous)", got)
	}
	pair, _ := cs.Load()
	if pair.Access != "" {
		t.Fatalf("failed login must not persist tokens: %+v", pair)
	}
}

func TestLoginFallbackMessage(t *testing.T) {
	t.Parallel()

	stub := &stubAPI{loginErr: errors.New("connection refused")}
	s := newStore(t, stub, creds.NewMemory())

	err := s.Login(context.Background(), "ade", "pw")
	if err == nil || err.Error() != "login failed" {
		t.Fatalf("expected generic fallback, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc", Refresh: "ref"})
	stub := &stubAPI{meUser: api.User{ID: 1, Username: "maria", Role: "manager"}}
	s := newStore(t, stub, cs)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	before := atomic.LoadInt32(&stub.calls)
	for i := 0; i < 2; i++ {
		if err := s.Logout(context.Background()); err != nil {
			t.Fatalf("Logout #%d: %v", i+1, err)
		}
		if got := s.State(); got != StateAnonymous {
			t.Fatalf("state after logout #%d = %s", i+1, got)
		}
		pair, _ := cs.Load()
		if pair.Access != "" || pair.Refresh != "" {
			t.Fatalf("tokens present after logout #%d: %+v", i+1, pair)
		}
	}
	if atomic.LoadInt32(&stub.calls) != before {
		t.Fatal("logout must not issue network calls")
	}
}

func TestRegisterLeavesSessionUntouched(t *testing.T) {
	t.Parallel()

	stub := &stubAPI{}
	s := newStore(t, stub, creds.NewMemory())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	err := s.Register(context.Background(), api.RegisterRequest{Username: "new", Password: "pw", Password2: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := s.State(); got != StateAnonymous {
		t.Fatalf("state = %s, want anonymous (registration does not log in)", got)
	}
}

func TestRoleDefaultsToUser(t *testing.T) {
	t.Parallel()

	stub := &stubAPI{}
	s := newStore(t, stub, creds.NewMemory())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := s.Role(); got != rbac.RoleUser {
		t.Fatalf("anonymous role = %s, want user", got)
	}
	if s.CanAssignUsers() || s.CanAccessAllData() || s.CanCreateUsers() {
		t.Fatal("anonymous session must hold only user-level permissions")
	}
	if !s.CanCreateProjects() {
		t.Fatal("user-level permissions should still apply")
	}
}

func TestRoleUnknownDegradesToUser(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc"})
	stub := &stubAPI{meUser: api.User{ID: 9, Username: "x", Role: "superuser"}}
	s := newStore(t, stub, cs)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := s.Role(); got != rbac.RoleUser {
		t.Fatalf("unknown role mapped to %s, want user", got)
	}
}

func TestUpdateProfileLocalOnly(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc"})
	stub := &stubAPI{meUser: api.User{ID: 1, Username: "maria", Role: "manager"}}
	s := newStore(t, stub, cs)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	before := atomic.LoadInt32(&stub.calls)
	s.UpdateProfile(api.User{ID: 1, Username: "maria", FirstName: "Maria", Role: "manager"})
	if atomic.LoadInt32(&stub.calls) != before {
		t.Fatal("UpdateProfile must not issue network calls")
	}
	user, _ := s.Principal()
	if user.FirstName != "Maria" {
		t.Fatalf("principal not updated: %+v", user)
	}

	// Ignored when anonymous.
	s.Logout(context.Background())
	s.UpdateProfile(api.User{ID: 2, Username: "ghost"})
	if _, ok := s.Principal(); ok {
		t.Fatal("UpdateProfile must be a no-op when anonymous")
	}
}

func TestHasAnyRole(t *testing.T) {
	t.Parallel()

	cs := creds.NewMemory()
	cs.Save(creds.Pair{Access: "acc"})
	stub := &stubAPI{meUser: api.User{ID: 1, Username: "maria", Role: "manager"}}
	s := newStore(t, stub, cs)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if !s.HasAnyRole(rbac.RoleAdmin, rbac.RoleManager) {
		t.Fatal("manager should match {admin, manager}")
	}
	if s.HasAnyRole(rbac.RoleAdmin) {
		t.Fatal("manager should not match {admin}")
	}
	if !s.HasRole(rbac.RoleManager) {
		t.Fatal("HasRole(manager) should hold")
	}
}
