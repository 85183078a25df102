// Package guard implements the navigation gate: one synchronous predicate
// evaluated against session presence before entering a route.
package guard

// Route paths mirrored from the client's route table.
const (
	LoginPath = "/login"
	TasksPath = "/tasks"
)

// Route describes the auth requirements of a navigation target.
type Route struct {
	Path          string
	RequiresAuth  bool
	RequiresGuest bool
}

// Decision is the outcome of evaluating a navigation.
type Decision int

const (
	// Allow lets the navigation proceed unchanged.
	Allow Decision = iota

	// RedirectLogin sends an unauthenticated visitor to the login route.
	RedirectLogin

	// RedirectTasks sends an authenticated visitor away from guest-only
	// routes to the default landing page.
	RedirectTasks
)

// Target returns the redirect path for the decision, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectTasks:
		return TasksPath
	}
	return ""
}

// Evaluate gates a navigation to route given the session's authentication
// state. Purely synchronous, no I/O.
func Evaluate(route Route, authenticated bool) Decision {
	if route.RequiresAuth && !authenticated {
		return RedirectLogin
	}
	if route.RequiresGuest && authenticated {
		return RedirectTasks
	}
	return Allow
}
