package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/service"
)

// ServiceBackend satisfies Backend against the in-process services. It
// plays the part the hosted auth provider played for the browser app,
// including owning token persistence for its client: one ServiceBackend
// per connected client, holding that client's access token.
type ServiceBackend struct {
	auth    *service.AuthService
	profile *service.ProfileService

	mu          sync.Mutex
	accessToken string
}

func NewServiceBackend(auth *service.AuthService, profile *service.ProfileService, accessToken string) *ServiceBackend {
	return &ServiceBackend{
		auth:        auth,
		profile:     profile,
		accessToken: accessToken,
	}
}

// AccessToken returns the token currently held for this client.
func (sb *ServiceBackend) AccessToken() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.accessToken
}

func (sb *ServiceBackend) CurrentIdentity(ctx context.Context) (*domain.Identity, error) {
	sb.mu.Lock()
	token := sb.accessToken
	sb.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	identity, err := sb.identityFromToken(token)
	if err != nil {
		// An expired or malformed token is an anonymous visitor, not a
		// transport failure.
		return nil, nil
	}
	return identity, nil
}

func (sb *ServiceBackend) identityFromToken(token string) (*domain.Identity, error) {
	claims, err := sb.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	sub, _ := (*claims)["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}
	email, _ := (*claims)["email"].(string)
	return &domain.Identity{ID: id, Email: email}, nil
}

func (sb *ServiceBackend) FetchProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return sb.auth.GetUserByID(ctx, id)
}

// registerMetadata is the wire shape of the extra sign-up fields, matching
// what the signup forms submit.
type registerMetadata struct {
	Profile  service.ProfileFields   `json:"profile"`
	Business *service.BusinessFields `json:"business"`
}

func (sb *ServiceBackend) RegisterAccount(ctx context.Context, email, password string, role domain.UserType, metadata json.RawMessage) (*domain.Identity, error) {
	var meta registerMetadata
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &meta); err != nil {
			return nil, err
		}
	}
	return sb.auth.Register(ctx, service.RegisterInput{
		Email:    email,
		Password: password,
		UserType: role,
		Profile:  meta.Profile,
		Business: meta.Business,
	})
}

func (sb *ServiceBackend) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := sb.auth.AuthenticateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	result, err := sb.auth.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	sb.mu.Lock()
	sb.accessToken = result.AccessToken
	sb.mu.Unlock()
	return result.Identity, nil
}

func (sb *ServiceBackend) InvalidateSession(ctx context.Context) error {
	sb.mu.Lock()
	token := sb.accessToken
	sb.mu.Unlock()

	if token != "" {
		if identity, err := sb.identityFromToken(token); err == nil {
			if err := sb.auth.Logout(ctx, identity.ID); err != nil {
				return err
			}
		}
	}

	sb.mu.Lock()
	sb.accessToken = ""
	sb.mu.Unlock()
	return nil
}

func (sb *ServiceBackend) BusinessApprovalStatus(ctx context.Context, userID uuid.UUID) (domain.ApprovalStatus, error) {
	return sb.auth.ApprovalStatusByUserID(ctx, userID)
}

func (sb *ServiceBackend) UpdateProfile(ctx context.Context, id uuid.UUID, fields json.RawMessage) error {
	var input service.UpdateProfileInput
	if err := json.Unmarshal(fields, &input); err != nil {
		return err
	}
	_, err := sb.profile.UpdateProfile(ctx, id, input)
	return err
}
