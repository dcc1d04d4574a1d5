// Package guard decides between rendering protected content and redirecting to
// sign-in. Decisions are a pure function of session store state at request
// time; nothing is cached between requests.
package guard

import (
	"log/slog"
	"net/http"

	"bookline/internal/identity/models"
)

// SessionReader is the slice of the session store the guard consults.
type SessionReader interface {
	CurrentUser() *models.User
	IsAuthenticated() bool
}

// Guard gates navigation on session state.
type Guard struct {
	sessions SessionReader
	logger   *slog.Logger
}

// New constructs a route guard over the given session reader.
func New(sessions SessionReader, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{sessions: sessions, logger: logger}
}

// RequireSession allows the request through when a session is present and
// redirects to sign-in otherwise. Evaluated fresh on every request.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.sessions.IsAuthenticated() {
			g.logger.InfoContext(r.Context(), "redirecting unauthenticated request",
				"path", r.URL.Path,
				"target", RouteSignIn,
			)
			http.Redirect(w, r, RouteSignIn, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ResolveRoot picks the landing area for a root-path visit: business and
// enterprise accounts land on the dashboard, individual accounts on the
// customer my-page, and anonymous visitors on sign-in.
func (g *Guard) ResolveRoot() string {
	user := g.sessions.CurrentUser()
	if user == nil || !g.sessions.IsAuthenticated() {
		return RouteSignIn
	}
	if user.UserType.IsBusiness() {
		return RouteDashboard
	}
	return RouteMyPage
}

// RedirectRoot serves the root path and, as the catch-all for unmatched paths,
// reuses the same resolution instead of a distinct not-found view.
func (g *Guard) RedirectRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, g.ResolveRoot(), http.StatusFound)
}
