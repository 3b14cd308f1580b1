// Package session owns the client-facing authentication state: who is
// signed in, their domain profile, and whether that question is still being
// answered. The Bootstrapper is the only writer of a Session; everything
// else reads snapshots and feeds them to the access gate.
package session

import (
	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Session is the single source of truth for "who is logged in". Identity
// may be known while Profile is still nil: the profile is fetched after the
// identity resolves, and a failed fetch deliberately leaves it nil.
type Session struct {
	Identity *domain.Identity `json:"identity"`
	Profile  *domain.User     `json:"profile"`
	Loading  bool             `json:"loading"`
}

// Anonymous reports whether no identity has been established.
func (s Session) Anonymous() bool {
	return s.Identity == nil
}

// UserType returns the session's role classification, normalized to
// customer when the profile is absent or carries an unknown value.
func (s Session) UserType() domain.UserType {
	if s.Profile == nil {
		return domain.UserTypeCustomer
	}
	return s.Profile.UserType.Normalize()
}

// ProfileComplete reports whether the signed-in profile has every field the
// onboarding flow requires. False for anonymous or profile-less sessions.
func (s Session) ProfileComplete() bool {
	return s.Profile.ProfileComplete()
}

// CompletionPercent returns the profile fill-in percentage, 0 when no
// profile is loaded.
func (s Session) CompletionPercent() int {
	return s.Profile.CompletionPercent()
}
