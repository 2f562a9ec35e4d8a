package gate

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	deniedTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	deniedBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	signInStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Pending renders the neutral waiting indicator shown while the
// session state is unresolved.
func Pending() string {
	return pendingStyle.Render("… checking session")
}

// AccessDenied renders the access-denied view for an authenticated
// user whose role is not allowed.
func AccessDenied() string {
	return deniedTitleStyle.Render("Access denied") + "\n" +
		deniedBodyStyle.Render("You don't have permission to access this page.")
}

// SignInPrompt points an unauthenticated user at the login entry point.
func SignInPrompt() string {
	return signInStyle.Render("Not signed in. Run `planhub login` first.")
}

// Render maps a decision to its view. DecisionAllowed renders the
// supplied content; everything else renders the matching gate view,
// with fallback (when non-empty) replacing the denied view.
func Render(d Decision, content, fallback string) string {
	switch d {
	case DecisionPending:
		return Pending()
	case DecisionSignIn:
		return SignInPrompt()
	case DecisionDenied:
		if fallback != "" {
			return fallback
		}
		return AccessDenied()
	default:
		return content
	}
}
