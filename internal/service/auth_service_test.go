package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository/postgres"
	"github.com/mdr/duck-rewards-website/internal/service"
	"github.com/mdr/duck-rewards-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(testDB *testutil.TestDB) *service.AuthService {
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewAuthService(repos.User, repos.Session, repos.Business, testutil.TestConfig())
}

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, repos.Session, repos.Business, testutil.TestConfig())
	ctx := context.Background()

	tests := []struct {
		name          string
		input         service.RegisterInput
		setup         func()
		wantErr       error
		checkBusiness bool
	}{
		{
			name: "customer registration",
			input: service.RegisterInput{
				Email:    "customer@example.com",
				Password: "password123",
				UserType: domain.UserTypeCustomer,
				Profile:  service.ProfileFields{FirstName: "Pat", LastName: "Lee"},
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Email:    "existing@example.com",
				Password: "password123",
				UserType: domain.UserTypeCustomer,
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailExists,
		},
		{
			name: "invalid user type",
			input: service.RegisterInput{
				Email:    "weird@example.com",
				Password: "password123",
				UserType: domain.UserType("superuser"),
			},
			wantErr: domain.ErrInvalidUserType,
		},
		{
			name: "business registration creates a pending partnership",
			input: service.RegisterInput{
				Email:    "shop@example.com",
				Password: "password123",
				UserType: domain.UserTypeBusiness,
				Business: &service.BusinessFields{
					BusinessName:   "Duck Shop",
					MembershipTier: domain.TierTrade,
				},
			},
			checkBusiness: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			identity, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, identity)
			assert.Equal(t, tt.input.Email, identity.Email)

			if tt.checkBusiness {
				status, err := authService.ApprovalStatusByUserID(ctx, identity.ID)
				require.NoError(t, err)
				assert.Equal(t, domain.ApprovalPending, status)

				business, err := repos.Business.GetByUserID(ctx, identity.ID)
				require.NoError(t, err)
				assert.Equal(t, domain.TierTrade, business.MembershipTier)
				assert.Equal(t, 2, business.DuckAlertsRemaining)
				assert.False(t, business.IsActive)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(testDB)
	ctx := context.Background()

	customer, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	suspended, suspendedPassword := testutil.NewUserBuilder().
		WithEmail("suspended@example.com").
		Suspended().
		Build(t, testDB.DB)

	pendingOwner, pendingPassword := testutil.NewUserBuilder().
		WithEmail("pending@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, testDB.DB)
	testutil.NewBusinessBuilder().
		WithOwner(pendingOwner).
		WithApprovalStatus(domain.ApprovalPending).
		Build(t, testDB.DB)

	rejectedOwner, rejectedPassword := testutil.NewUserBuilder().
		WithEmail("rejected@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, testDB.DB)
	testutil.NewBusinessBuilder().
		WithOwner(rejectedOwner).
		WithApprovalStatus(domain.ApprovalRejected).
		Build(t, testDB.DB)

	approvedOwner, approvedPassword := testutil.NewUserBuilder().
		WithEmail("approved@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, testDB.DB)
	testutil.NewBusinessBuilder().
		WithOwner(approvedOwner).
		WithApprovalStatus(domain.ApprovalApproved).
		Build(t, testDB.DB)

	recordless, recordlessPassword := testutil.NewUserBuilder().
		WithEmail("recordless@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantUser uuid.UUID
	}{
		{
			name:     "successful login",
			email:    customer.Email,
			password: rawPassword,
			wantUser: customer.ID,
		},
		{
			name:     "wrong password",
			email:    customer.Email,
			password: "wrongpassword",
			wantErr:  service.ErrInvalidCredentials,
		},
		{
			name:     "non-existent user",
			email:    "nobody@example.com",
			password: "anypassword",
			wantErr:  service.ErrInvalidCredentials,
		},
		{
			name:     "suspended account",
			email:    suspended.Email,
			password: suspendedPassword,
			wantErr:  service.ErrAccountSuspended,
		},
		{
			name:     "pending business is refused",
			email:    pendingOwner.Email,
			password: pendingPassword,
			wantErr:  domain.ErrBusinessPending,
		},
		{
			name:     "rejected business is refused",
			email:    rejectedOwner.Email,
			password: rejectedPassword,
			wantErr:  domain.ErrBusinessRejected,
		},
		{
			name:     "approved business logs in",
			email:    approvedOwner.Email,
			password: approvedPassword,
			wantUser: approvedOwner.ID,
		},
		{
			name:     "business account without partnership record logs in",
			email:    recordless.Email,
			password: recordlessPassword,
			wantUser: recordless.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(testDB)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().
		WithEmail("token@example.com").
		Build(t, testDB.DB)

	result, err := authService.Login(ctx, user.Email, password)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   result.AccessToken,
			wantErr: false,
		},
		{
			name:    "invalid token",
			token:   "invalid.token.here",
			wantErr: true,
		},
		{
			name:    "malformed token",
			token:   "notavalidjwt",
			wantErr: true,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authService.ValidateToken(tt.token)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, user.ID.String(), (*claims)["sub"])
			assert.Equal(t, string(domain.UserTypeCustomer), (*claims)["user_type"])
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	authService := newAuthService(testDB)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().
		WithEmail("logout@example.com").
		Build(t, testDB.DB)

	_, err := authService.Login(ctx, user.Email, password)
	require.NoError(t, err)

	err = authService.Logout(ctx, user.ID)
	require.NoError(t, err)

	// Logout again should not error (no sessions to delete)
	err = authService.Logout(ctx, user.ID)
	require.NoError(t, err)
}
