package gate

import (
	"strings"
	"testing"

	"planhub.org/internal/rbac"
	"planhub.org/internal/session"
)

// fakeSession implements Session without a real store.
type fakeSession struct {
	state session.State
	role  rbac.Role
}

func (f fakeSession) State() session.State { return f.state }
func (f fakeSession) Role() rbac.Role      { return f.role }
func (f fakeSession) HasPermission(p rbac.Permission) bool {
	if f.state != session.StateAuthenticated {
		return rbac.Can(rbac.RoleUser, p)
	}
	return rbac.Can(f.role, p)
}

func TestForRoles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		sess    fakeSession
		allowed []rbac.Role
		want    Decision
	}{
		{
			name: "loading renders pending, no navigation",
			sess: fakeSession{state: session.StateLoading},
			want: DecisionPending,
		},
		{
			name: "anonymous goes to sign in",
			sess: fakeSession{state: session.StateAnonymous},
			want: DecisionSignIn,
		},
		{
			name:    "user on admin-only route is denied, not redirected",
			sess:    fakeSession{state: session.StateAuthenticated, role: rbac.RoleUser},
			allowed: []rbac.Role{rbac.RoleAdmin},
			want:    DecisionDenied,
		},
		{
			name:    "manager allowed on admin-or-manager route",
			sess:    fakeSession{state: session.StateAuthenticated, role: rbac.RoleManager},
			allowed: []rbac.Role{rbac.RoleAdmin, rbac.RoleManager},
			want:    DecisionAllowed,
		},
		{
			name: "empty role set admits any authenticated user",
			sess: fakeSession{state: session.StateAuthenticated, role: rbac.RoleUser},
			want: DecisionAllowed,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ForRoles(tc.sess, tc.allowed...); got != tc.want {
				t.Errorf("ForRoles = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestForPermission(t *testing.T) {
	t.Parallel()

	admin := fakeSession{state: session.StateAuthenticated, role: rbac.RoleAdmin}
	user := fakeSession{state: session.StateAuthenticated, role: rbac.RoleUser}

	if got := ForPermission(admin, rbac.PermManageUsers); got != DecisionAllowed {
		t.Errorf("admin manage users = %s", got)
	}
	if got := ForPermission(user, rbac.PermAssignUsers); got != DecisionDenied {
		t.Errorf("user assign users = %s", got)
	}
	if got := ForPermission(fakeSession{state: session.StateLoading}, rbac.PermCreateTasks); got != DecisionPending {
		t.Errorf("loading = %s", got)
	}
	if got := ForPermission(fakeSession{state: session.StateAnonymous}, rbac.PermCreateTasks); got != DecisionSignIn {
		t.Errorf("anonymous = %s", got)
	}
}

func TestPermissionGatedControlHidden(t *testing.T) {
	t.Parallel()

	// A plain user creating a task must not see the assignee selector.
	user := fakeSession{state: session.StateAuthenticated, role: rbac.RoleUser}
	out := If(user.HasPermission(rbac.PermAssignUsers), "Assignee: [select a member]", "")
	if out != "" {
		t.Fatalf("assignee control rendered for role user: %q", out)
	}

	manager := fakeSession{state: session.StateAuthenticated, role: rbac.RoleManager}
	out = If(manager.HasPermission(rbac.PermAssignUsers), "Assignee: [select a member]", "")
	if out == "" {
		t.Fatal("assignee control missing for role manager")
	}
}

func TestRenderViews(t *testing.T) {
	t.Parallel()

	if got := Render(DecisionAllowed, "content", ""); got != "content" {
		t.Errorf("allowed render = %q", got)
	}
	if got := Render(DecisionDenied, "content", ""); !strings.Contains(got, "Access denied") {
		t.Errorf("denied render = %q", got)
	}
	if got := Render(DecisionDenied, "content", "custom fallback"); got != "custom fallback" {
		t.Errorf("denied fallback render = %q", got)
	}
	if got := Render(DecisionSignIn, "content", ""); !strings.Contains(got, "planhub login") {
		t.Errorf("sign-in render = %q", got)
	}
	if got := Render(DecisionPending, "content", ""); !strings.Contains(got, "checking session") {
		t.Errorf("pending render = %q", got)
	}
}
