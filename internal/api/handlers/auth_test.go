package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]any
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful customer registration",
			request: map[string]any{
				"email":     "new@example.com",
				"password":  "password123",
				"user_type": "customer",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result struct {
					ID    string `json:"id"`
					Email string `json:"email"`
				}
				testutil.AssertJSONResponse(t, resp, &result)
				assert.NotEmpty(t, result.ID)
				assert.Equal(t, "new@example.com", result.Email)
			},
		},
		{
			name: "business registration",
			request: map[string]any{
				"email":     "shop@example.com",
				"password":  "password123",
				"user_type": "business",
				"business": map[string]any{
					"business_name":   "Duck Shop",
					"membership_tier": "basic",
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing email",
			request: map[string]any{
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			request: map[string]any{
				"email": "nopass@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "admin self-signup refused",
			request: map[string]any{
				"email":     "sneaky@example.com",
				"password":  "password123",
				"user_type": "admin",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			request: map[string]any{
				"email":    "existing@example.com",
				"password": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			resp := postJSON(t, ts.APIURL("/auth/register"), tt.request)

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	customer, password := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		Build(t, ts.DB.DB)

	suspended, suspendedPassword := testutil.NewUserBuilder().
		WithEmail("suspended@example.com").
		Suspended().
		Build(t, ts.DB.DB)

	pendingOwner, pendingPassword := testutil.NewUserBuilder().
		WithEmail("pending@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, ts.DB.DB)
	testutil.NewBusinessBuilder().
		WithOwner(pendingOwner).
		WithApprovalStatus(domain.ApprovalPending).
		Build(t, ts.DB.DB)

	rejectedOwner, rejectedPassword := testutil.NewUserBuilder().
		WithEmail("rejected@example.com").
		WithUserType(domain.UserTypeBusiness).
		Build(t, ts.DB.DB)
	testutil.NewBusinessBuilder().
		WithOwner(rejectedOwner).
		WithApprovalStatus(domain.ApprovalRejected).
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		expectedBody   string
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "successful login",
			email:          customer.Email,
			password:       password,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.LoginResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, customer.ID, result.User.ID)
				assert.NotEmpty(t, result.AccessToken)
				assert.Equal(t, domain.CustomerHomeRoute, result.RedirectTo)
			},
		},
		{
			name:           "wrong password",
			email:          customer.Email,
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "suspended account",
			email:          suspended.Email,
			password:       suspendedPassword,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Account suspended",
		},
		{
			name:           "pending business gets the approval message",
			email:          pendingOwner.Email,
			password:       pendingPassword,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "pending approval",
		},
		{
			name:           "rejected business gets the rejection message",
			email:          rejectedOwner.Email,
			password:       rejectedPassword,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "not approved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})

			if tt.expectedBody != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedBody)
				return
			}
			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithEmail("me@example.com").
		WithProfile("Pat", "Lee", "5551234567", "62701").
		BuildAndAuthenticate(t, ts)

	// /auth/me with a valid token
	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var me domain.User
	testutil.AssertJSONResponse(t, resp, &me)
	assert.Equal(t, user.ID, me.ID)

	// Logout revokes the refresh sessions
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/auth/logout"), nil, token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestAuthHandler_Session(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("anonymous session", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/auth/session"))
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var result struct {
			UserType          domain.UserType `json:"user_type"`
			ProfileComplete   bool            `json:"profile_complete"`
			CompletionPercent int             `json:"completion_percent"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, domain.UserTypeCustomer, result.UserType)
		assert.False(t, result.ProfileComplete)
		assert.Equal(t, 0, result.CompletionPercent)
	})

	t.Run("signed-in session reports completion", func(t *testing.T) {
		_, token := testutil.NewUserBuilder().
			WithEmail("complete@example.com").
			WithProfile("Pat", "Lee", "5551234567", "62701").
			BuildAndAuthenticate(t, ts)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/session"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var result struct {
			ProfileComplete   bool `json:"profile_complete"`
			CompletionPercent int  `json:"completion_percent"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.True(t, result.ProfileComplete)
		assert.Equal(t, 80, result.CompletionPercent)
	})
}

func TestGate_CorrectiveRedirects(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Do not follow redirects; the Location header is the assertion target.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	_, customerToken := testutil.NewUserBuilder().
		WithEmail("gate-customer@example.com").
		BuildAndAuthenticate(t, ts)

	adminUser, adminToken := testutil.NewUserBuilder().
		WithEmail("gate-admin@example.com").
		WithUserType(domain.UserTypeAdmin).
		BuildAndAuthenticate(t, ts)
	_ = adminUser

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		expectedTarget string
	}{
		{
			name:           "anonymous visitor is sent to sign-in",
			path:           "/profile/",
			token:          "",
			expectedStatus: http.StatusSeeOther,
			expectedTarget: domain.SignInRoute,
		},
		{
			name:           "customer on the admin panel is sent home",
			path:           "/admin/users",
			token:          customerToken,
			expectedStatus: http.StatusSeeOther,
			expectedTarget: domain.CustomerHomeRoute,
		},
		{
			name:           "admin on the business dashboard is sent to the admin home",
			path:           "/dashboard/business/me",
			token:          adminToken,
			expectedStatus: http.StatusSeeOther,
			expectedTarget: domain.AdminHomeRoute,
		},
		{
			name:           "admin reaches the admin panel",
			path:           "/admin/users",
			token:          adminToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "customer reaches their own dashboard",
			path:           "/dashboard/customer/ducks",
			token:          customerToken,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL(tt.path), nil, tt.token)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedTarget != "" {
				assert.Equal(t, tt.expectedTarget, resp.Header.Get("Location"))
			}
		})
	}
}
