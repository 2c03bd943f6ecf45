// Package access decides which pages a session may open and which
// navigation tabs it should see. Resolution is a pure function of a Session
// snapshot taken at evaluation time; it never touches storage and never
// panics, so an unrecognized role degrades to dashboard-only access.
package access

import (
	"strings"

	"github.com/tresorier/caisse/internal/models"
)

// Page paths known to the application. The API route guard maps request
// routes onto these before resolving.
const (
	PathLogin          = "/login"
	PathDashboard      = "/dashboard"
	PathProjects       = "/projects"
	PathArticles       = "/articles"
	PathUnits          = "/units"
	PathUsers          = "/users"
	PathSuppliers      = "/suppliers"
	PathInflow         = "/inflow"
	PathInflowHistory  = "/inflow/history"
	PathExpenses       = "/expenses"
	PathExpenseHistory = "/expenses/history"
	PathActivity       = "/activity"
	PathClosing        = "/closing"
)

// Session is the resolved authorization snapshot for one request. It is
// built at the application boundary from the authenticated user's current
// database row and threaded through explicitly.
type Session struct {
	Authenticated  bool
	UserID         uint
	Name           string
	Role           string
	Admin          bool
	EntriesAccess  bool
	ExpensesAccess bool
	HistoryAccess  bool
}

// SessionFor builds a Session from a user row.
func SessionFor(u *models.User) Session {
	if u == nil {
		return Session{}
	}
	return Session{
		Authenticated:  true,
		UserID:         u.ID,
		Name:           u.Name,
		Role:           u.Role,
		Admin:          u.IsAdmin(),
		EntriesAccess:  u.EntriesAccess,
		ExpensesAccess: u.ExpensesAccess,
		HistoryAccess:  u.HistoryAccess,
	}
}

// IsAdmin reports whether the session carries full access.
func (s Session) IsAdmin() bool {
	return s.Admin || s.Role == models.RoleAdmin
}

// Decision is the outcome of resolving one navigation request.
type Decision struct {
	Allowed bool
	// RedirectPath is where the client should land instead when denied.
	RedirectPath string
}

// allowedPaths returns the page set a non-admin session may open, derived
// from its feature flags. Dashboard is handled separately and is always
// permitted for authenticated sessions.
func allowedPaths(s Session) map[string]bool {
	pages := make(map[string]bool)
	if s.EntriesAccess {
		pages[PathInflow] = true
		pages[PathProjects] = true
		pages[PathClosing] = true
		if s.HistoryAccess {
			pages[PathInflowHistory] = true
			pages[PathExpenseHistory] = true
		}
	}
	if s.ExpensesAccess {
		pages[PathExpenses] = true
		pages[PathArticles] = true
		pages[PathUnits] = true
		pages[PathSuppliers] = true
		pages[PathExpenseHistory] = true
	}
	return pages
}

// knownPages, most specific first, so /inflow/history resolves to the
// history page and not to /inflow.
var knownPages = []string{
	PathInflowHistory,
	PathExpenseHistory,
	PathDashboard,
	PathProjects,
	PathArticles,
	PathUnits,
	PathUsers,
	PathSuppliers,
	PathInflow,
	PathExpenses,
	PathActivity,
	PathClosing,
	PathLogin,
}

// PageFor canonicalizes a request path to the page owning it, or "" when
// the path matches no known page.
func PageFor(path string) string {
	for _, page := range knownPages {
		if path == page || strings.HasPrefix(path, page+"/") {
			return page
		}
	}
	return ""
}

// Resolve decides whether the session may open the requested path.
func Resolve(s Session, requestedPath string) Decision {
	if !s.Authenticated {
		return Decision{Allowed: false, RedirectPath: PathLogin}
	}

	if s.IsAdmin() {
		return Decision{Allowed: true}
	}

	page := PageFor(requestedPath)
	if page == PathDashboard {
		return Decision{Allowed: true}
	}

	if page != "" && allowedPaths(s)[page] {
		return Decision{Allowed: true}
	}

	// The pca role lands on expense history instead of the dashboard.
	if s.Role == models.RolePCA {
		return Decision{Allowed: false, RedirectPath: PathExpenseHistory}
	}
	return Decision{Allowed: false, RedirectPath: PathDashboard}
}
