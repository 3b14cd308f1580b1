package middleware

import (
	"net/http"

	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/session"
)

// Gate enforces a view's access requirement against the session resolved by
// the Session middleware. The decision is re-evaluated on every request;
// nothing is cached across session changes. Mismatched roles get a
// corrective redirect to their own dashboard, never a 403.
func Gate(req session.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, _ := GetSession(r.Context())

			switch d := session.Decide(snap, req); d.Kind {
			case session.DecisionAllow:
				next.ServeHTTP(w, r)
			case session.DecisionRedirect:
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
			default:
				// The per-request session resolution is synchronous, so a
				// still-loading session only shows up if a handler is moved
				// off that path. Ask the client to retry.
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Session still loading", http.StatusServiceUnavailable)
			}
		})
	}
}

// RequireAuth admits any signed-in user.
func RequireAuth() func(http.Handler) http.Handler {
	return Gate(session.RequireAuthenticated())
}

// RequireRole admits only the given user type.
func RequireRole(t domain.UserType) func(http.Handler) http.Handler {
	return Gate(session.RequireRole(t))
}
