package session

import (
	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Requirement is a view's declared access rule: authenticated-only, or
// authenticated with a specific role.
type Requirement struct {
	role *domain.UserType
}

// RequireAuthenticated admits any signed-in user.
func RequireAuthenticated() Requirement {
	return Requirement{}
}

// RequireRole admits only users whose profile carries the given type.
func RequireRole(t domain.UserType) Requirement {
	return Requirement{role: &t}
}

// Role returns the required role, if any.
func (r Requirement) Role() (domain.UserType, bool) {
	if r.role == nil {
		return "", false
	}
	return *r.role, true
}

type DecisionKind int

const (
	// DecisionWait defers judgement: the session is still loading, so
	// render a neutral waiting state and re-evaluate later.
	DecisionWait DecisionKind = iota
	// DecisionAllow renders the requested view.
	DecisionAllow
	// DecisionRedirect sends the visitor to Location instead.
	DecisionRedirect
)

// Decision is the single allowed outcome of a navigation attempt.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Decide evaluates a navigation attempt against the current session. It is
// a pure function: same session and requirement, same decision. Rules, in
// strict order:
//
//  1. session still loading -> wait
//  2. anonymous -> redirect to sign-in
//  3. no role required -> allow
//  4. role mismatch -> corrective redirect to the actual role's home
//     (absent or unknown profile counts as customer), never a 403
//  5. allow
func Decide(s Session, req Requirement) Decision {
	if s.Loading {
		return Decision{Kind: DecisionWait}
	}
	if s.Anonymous() {
		return Decision{Kind: DecisionRedirect, Location: domain.SignInRoute}
	}

	required, ok := req.Role()
	if !ok {
		return Decision{Kind: DecisionAllow}
	}

	actual := s.UserType()
	if actual != required {
		return Decision{Kind: DecisionRedirect, Location: actual.CanonicalHome()}
	}
	return Decision{Kind: DecisionAllow}
}
