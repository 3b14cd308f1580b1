package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email     string
	password  string
	userType  domain.UserType
	firstName string
	lastName  string
	phone     string
	zipCode   string
	suspended bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		userType: domain.UserTypeCustomer,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithUserType sets the account classification
func (b *UserBuilder) WithUserType(t domain.UserType) *UserBuilder {
	b.userType = t
	return b
}

// WithProfile fills in the contact fields that count toward completion
func (b *UserBuilder) WithProfile(firstName, lastName, phone, zipCode string) *UserBuilder {
	b.firstName = firstName
	b.lastName = lastName
	b.phone = phone
	b.zipCode = zipCode
	return b
}

// Suspended marks the account as suspended
func (b *UserBuilder) Suspended() *UserBuilder {
	b.suspended = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		UserType:     b.userType,
		FirstName:    b.firstName,
		LastName:     b.lastName,
		Phone:        b.phone,
		ZipCode:      b.zipCode,
		IsSuspended:  b.suspended,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	RedirectTo   string       `json:"redirect_to"`
}

// BuildAndAuthenticate creates the user directly, logs in through the API,
// and returns the user plus an access token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"email":    b.email,
		"password": password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, loginResp.AccessToken
}

// BusinessBuilder creates partnership records with a builder pattern
type BusinessBuilder struct {
	owner          *domain.User
	businessName   string
	approvalStatus domain.ApprovalStatus
	tier           domain.MembershipTier
}

// NewBusinessBuilder creates a new BusinessBuilder with default values
func NewBusinessBuilder() *BusinessBuilder {
	return &BusinessBuilder{
		businessName:   fmt.Sprintf("Test Business %s", uuid.New().String()[:8]),
		approvalStatus: domain.ApprovalPending,
		tier:           domain.TierBasic,
	}
}

// WithOwner sets the owning user account
func (b *BusinessBuilder) WithOwner(user *domain.User) *BusinessBuilder {
	b.owner = user
	return b
}

// WithName sets the business name
func (b *BusinessBuilder) WithName(name string) *BusinessBuilder {
	b.businessName = name
	return b
}

// WithApprovalStatus sets the partnership gate state
func (b *BusinessBuilder) WithApprovalStatus(status domain.ApprovalStatus) *BusinessBuilder {
	b.approvalStatus = status
	return b
}

// WithTier sets the membership tier
func (b *BusinessBuilder) WithTier(tier domain.MembershipTier) *BusinessBuilder {
	b.tier = tier
	return b
}

// Build creates the business in the database
func (b *BusinessBuilder) Build(t *testing.T, db *gorm.DB) *domain.Business {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().WithUserType(domain.UserTypeBusiness).Build(t, db)
		b.owner = user
	}

	business := &domain.Business{
		ID:                  uuid.New(),
		UserID:              b.owner.ID,
		BusinessName:        b.businessName,
		Email:               b.owner.Email,
		MembershipTier:      b.tier,
		DuckAlertsRemaining: b.tier.DuckAlertAllowance(),
		ApprovalStatus:      b.approvalStatus,
		IsActive:            b.approvalStatus == domain.ApprovalApproved,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := db.Create(business).Error; err != nil {
		t.Fatalf("failed to create business: %v", err)
	}

	return business
}

// SeedLocation creates one active machine location
func SeedLocation(t *testing.T, db *gorm.DB, name string) *domain.Location {
	t.Helper()

	location := &domain.Location{
		ID:        uuid.New(),
		Name:      name,
		Address:   "123 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Latitude:  39.78,
		Longitude: -89.65,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(location).Error; err != nil {
		t.Fatalf("failed to create location: %v", err)
	}

	return location
}

// SeedDuck creates one duck owned by the given user
func SeedDuck(t *testing.T, db *gorm.DB, ownerID uuid.UUID, code string) *domain.Duck {
	t.Helper()

	duck := &domain.Duck{
		ID:        uuid.New(),
		Code:      code,
		OwnerID:   &ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(duck).Error; err != nil {
		t.Fatalf("failed to create duck: %v", err)
	}

	return duck
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
