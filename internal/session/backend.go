package session

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Backend is the auth/profile system the Bootstrapper talks to. The
// bootstrapper treats it as an external collaborator: every call can fail
// with a transport error, and token persistence is entirely the backend's
// problem.
type Backend interface {
	// CurrentIdentity returns the identity of an existing session, nil when
	// the caller is anonymous.
	CurrentIdentity(ctx context.Context) (*domain.Identity, error)

	// FetchProfile loads the domain user record for an identity.
	FetchProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// RegisterAccount creates an account with the intended role and the
	// extra profile fields carried as opaque metadata. It does not sign the
	// new account in.
	RegisterAccount(ctx context.Context, email, password string, role domain.UserType, metadata json.RawMessage) (*domain.Identity, error)

	// Authenticate verifies credentials and establishes a session.
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)

	// InvalidateSession signs the current session out.
	InvalidateSession(ctx context.Context) error

	// BusinessApprovalStatus looks up the partnership gate for a business
	// account. domain.ErrBusinessNotFound means no application exists.
	BusinessApprovalStatus(ctx context.Context, userID uuid.UUID) (domain.ApprovalStatus, error)

	// UpdateProfile applies onboarding form fields to the profile record.
	UpdateProfile(ctx context.Context, id uuid.UUID, fields json.RawMessage) error
}
