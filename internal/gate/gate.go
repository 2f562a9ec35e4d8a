// Package gate decides whether the current session may reach a command
// or see an affordance, and renders the corresponding views. Decisions
// never error: missing principals and unknown roles resolve to the
// least-privileged outcome.
package gate

import (
	"planhub.org/internal/rbac"
	"planhub.org/internal/session"
)

// Decision is the outcome of a gating check.
type Decision int

const (
	// DecisionPending: session still loading; show a waiting indicator
	// and make no navigation choice yet.
	DecisionPending Decision = iota
	// DecisionSignIn: no session; send the user to login.
	DecisionSignIn
	// DecisionDenied: authenticated but the role is not allowed.
	DecisionDenied
	// DecisionAllowed: proceed.
	DecisionAllowed
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionSignIn:
		return "sign_in"
	case DecisionDenied:
		return "denied"
	case DecisionAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Session is the read-only slice of the session store gating needs.
type Session interface {
	State() session.State
	Role() rbac.Role
	HasPermission(rbac.Permission) bool
}

// ForRoles gates a destination restricted to the given roles. An empty
// role set means any authenticated user.
func ForRoles(s Session, allowed ...rbac.Role) Decision {
	switch s.State() {
	case session.StateLoading:
		return DecisionPending
	case session.StateAnonymous:
		return DecisionSignIn
	}
	if len(allowed) == 0 || rbac.IsAnyOf(s.Role(), allowed...) {
		return DecisionAllowed
	}
	return DecisionDenied
}

// ForPermission gates a destination behind a single permission.
func ForPermission(s Session, perm rbac.Permission) Decision {
	switch s.State() {
	case session.StateLoading:
		return DecisionPending
	case session.StateAnonymous:
		return DecisionSignIn
	}
	if s.HasPermission(perm) {
		return DecisionAllowed
	}
	return DecisionDenied
}

// If renders content only when cond holds, else the fallback. Used to
// hide individual affordances rather than gate whole destinations.
func If(cond bool, content, fallback string) string {
	if cond {
		return content
	}
	return fallback
}
