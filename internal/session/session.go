// Package session owns the authenticated principal for the life of the
// process. It is the only writer of the identity state machine:
// loading until the stored token is checked, then authenticated or
// anonymous. Consumers receive the store explicitly; there is no
// ambient global.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"planhub.org/internal/api"
	"planhub.org/internal/audit"
	"planhub.org/internal/creds"
	"planhub.org/internal/rbac"
)

// State is the session lifecycle phase.
type State int

const (
	// StateLoading: the stored-token check has not completed yet.
	StateLoading State = iota
	// StateAuthenticated: a principal is loaded.
	StateAuthenticated
	// StateAnonymous: no valid session.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the API client the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (api.TokenPair, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Me(ctx context.Context) (api.User, error)
}

// Store is the session/identity store. Safe for concurrent use; late
// responses from abandoned call paths update state idempotently
// instead of faulting.
type Store struct {
	api   AuthAPI
	creds creds.Store

	mu        sync.RWMutex
	state     State
	principal *api.User
}

// New creates a store in the loading state. Call Init to resolve it.
func New(authAPI AuthAPI, credStore creds.Store) (*Store, error) {
	if authAPI == nil {
		return nil, errors.New("session: auth API is required")
	}
	if credStore == nil {
		return nil, errors.New("session: credential store is required")
	}
	return &Store{api: authAPI, creds: credStore, state: StateLoading}, nil
}

// Init resolves the initial state. With a stored access token it
// fetches the profile; a failure clears both tokens. With no stored
// token it goes anonymous directly, issuing no network call.
func (s *Store) Init(ctx context.Context) error {
	pair, err := s.creds.Load()
	if err != nil {
		s.setAnonymous()
		return fmt.Errorf("load credentials: %w", err)
	}
	if pair.Access == "" {
		s.setAnonymous()
		return nil
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if clearErr := s.creds.Clear(); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
		s.setAnonymous()
		return fmt.Errorf("restore session: %w", err)
	}
	s.setPrincipal(user)
	return nil
}

// Login exchanges credentials for tokens, persists them, and loads the
// profile. On failure the prior state is kept and the backend's detail
// message (or a generic fallback) is returned.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	pair, err := s.api.Login(ctx, username, password)
	if err != nil {
		return surfaced(err, "login failed")
	}
	if err := s.creds.Save(creds.Pair{Access: pair.Access, Refresh: pair.Refresh}); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		return surfaced(err, "login failed")
	}
	s.setPrincipal(user)
	_ = audit.Log(audit.WithActor(ctx, user.Username), "auth.login", map[string]any{"role": user.Role})
	return nil
}

// Logout clears tokens and principal. Offline and idempotent.
func (s *Store) Logout(ctx context.Context) error {
	err := s.creds.Clear()
	s.setAnonymous()
	_ = audit.Log(ctx, "auth.logout", nil)
	return err
}

// Register creates an account. Session state is untouched on success;
// the user must still log in.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := s.api.Register(ctx, req); err != nil {
		return surfaced(err, "registration failed")
	}
	_ = audit.Log(ctx, "auth.register", map[string]any{"username": req.Username})
	return nil
}

// UpdateProfile replaces the in-memory principal after a profile edit
// elsewhere. Local only; no network call. Ignored when anonymous.
func (s *Store) UpdateProfile(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	s.principal = &user
}

// State returns the current lifecycle phase.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a principal is loaded.
func (s *Store) IsAuthenticated() bool { return s.State() == StateAuthenticated }

// Principal returns a copy of the loaded principal.
func (s *Store) Principal() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return api.User{}, false
	}
	return *s.principal, true
}

// Role returns the principal's role, defaulting to the least-privileged
// role when no principal is loaded or the role is unset.
func (s *Store) Role() rbac.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return rbac.RoleUser
	}
	return rbac.ParseRole(s.principal.Role)
}

// HasPermission evaluates the policy table for the current role.
func (s *Store) HasPermission(perm rbac.Permission) bool {
	return rbac.Can(s.Role(), perm)
}

// HasRole reports whether the current role equals role.
func (s *Store) HasRole(role rbac.Role) bool { return s.Role() == role }

// HasAnyRole reports whether the current role is in roles.
func (s *Store) HasAnyRole(roles ...rbac.Role) bool {
	return rbac.IsAnyOf(s.Role(), roles...)
}

// Convenience wrappers for each permission in the policy table.
func (s *Store) CanCreateUsers() bool      { return s.HasPermission(rbac.PermCreateUsers) }
func (s *Store) CanCreateProjects() bool   { return s.HasPermission(rbac.PermCreateProjects) }
func (s *Store) CanCreateMilestones() bool { return s.HasPermission(rbac.PermCreateMilestones) }
func (s *Store) CanCreateTasks() bool      { return s.HasPermission(rbac.PermCreateTasks) }
func (s *Store) CanAssignUsers() bool      { return s.HasPermission(rbac.PermAssignUsers) }
func (s *Store) CanAccessAllData() bool    { return s.HasPermission(rbac.PermAccessAllData) }
func (s *Store) CanManageUsers() bool      { return s.HasPermission(rbac.PermManageUsers) }

func (s *Store) setPrincipal(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.principal = &user
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.principal = nil
}

// surfaced keeps the backend's structured message as the user-visible
// text, falling back to a generic one for transport failures and
// shapeless bodies. The original error stays reachable via Unwrap.
func surfaced(err error, fallback string) error {
	msg := fallback
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message(fallback)
	}
	return &authError{msg: msg, cause: err}
}

type authError struct {
	msg   string
	cause error
}

func (e *authError) Error() string { return e.msg }
func (e *authError) Unwrap() error { return e.cause }
