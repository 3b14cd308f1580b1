package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/config"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountSuspended   = errors.New("account is suspended")
)

// AuthEvents receives auth-state changes so connected clients can be told
// their session changed from outside the current tab. A nil identity means
// the user is signed out.
type AuthEvents interface {
	PublishAuthChange(userID uuid.UUID, identity *domain.Identity)
}

type AuthService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	businessRepo repository.BusinessRepository
	cfg          *config.Config
	events       AuthEvents
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, businessRepo repository.BusinessRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		businessRepo: businessRepo,
		cfg:          cfg,
	}
}

// SetEvents wires an auth-change publisher. Optional; nil means no fan-out.
func (s *AuthService) SetEvents(events AuthEvents) {
	s.events = events
}

// ProfileFields carries the optional profile data submitted at sign-up.
type ProfileFields struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	ZipCode     string `json:"zip_code"`
}

// BusinessFields carries the partnership application submitted at business
// sign-up. The business record starts out pending admin approval.
type BusinessFields struct {
	BusinessName   string                `json:"business_name"`
	BusinessType   string                `json:"business_type"`
	ContactName    string                `json:"contact_name"`
	Phone          string                `json:"phone"`
	Website        string                `json:"website"`
	Address        string                `json:"address"`
	City           string                `json:"city"`
	State          string                `json:"state"`
	ZipCode        string                `json:"zip_code"`
	MembershipTier domain.MembershipTier `json:"membership_tier"`
}

type RegisterInput struct {
	Email    string
	Password string
	UserType domain.UserType
	Profile  ProfileFields
	Business *BusinessFields
}

type AuthResult struct {
	User         *domain.User
	Identity     *domain.Identity
	AccessToken  string
	RefreshToken string
}

// Register creates the account and, for business sign-ups, the pending
// partnership record. It does not sign the caller in; the new account still
// has to go through Login (and the business approval gate) first.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Identity, error) {
	if !input.UserType.IsValid() {
		return nil, domain.ErrInvalidUserType
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var dob *datatypes.Date
	if input.Profile.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", input.Profile.DateOfBirth)
		if err != nil {
			return nil, err
		}
		d := datatypes.Date(parsed)
		dob = &d
	}

	metadata, err := json.Marshal(map[string]any{
		"user_type": input.UserType,
		"profile":   input.Profile,
		"business":  input.Business,
	})
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             uuid.New(),
		Email:          input.Email,
		PasswordHash:   string(hashedPassword),
		UserType:       input.UserType,
		FirstName:      input.Profile.FirstName,
		LastName:       input.Profile.LastName,
		Phone:          input.Profile.Phone,
		DateOfBirth:    dob,
		ZipCode:        input.Profile.ZipCode,
		SignupMetadata: metadata,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.UserType == domain.UserTypeBusiness && input.Business != nil {
		tier := input.Business.MembershipTier
		if !tier.IsValid() {
			tier = domain.TierBasic
		}
		business := &domain.Business{
			ID:                  uuid.New(),
			UserID:              user.ID,
			BusinessName:        input.Business.BusinessName,
			BusinessType:        input.Business.BusinessType,
			ContactName:         input.Business.ContactName,
			Email:               input.Email,
			Phone:               input.Business.Phone,
			Website:             input.Business.Website,
			Address:             input.Business.Address,
			City:                input.Business.City,
			State:               input.Business.State,
			ZipCode:             input.Business.ZipCode,
			MembershipTier:      tier,
			DuckAlertsRemaining: tier.DuckAlertAllowance(),
			ApprovalStatus:      domain.ApprovalPending,
			CreatedAt:           time.Now(),
			UpdatedAt:           time.Now(),
		}
		if err := s.businessRepo.Create(ctx, business); err != nil {
			return nil, err
		}
	}

	return domain.IdentityOf(user), nil
}

// AuthenticateCredentials verifies the password and suspension state only.
// The business approval gate is a separate, explicit step so that valid
// credentials and an authorized partnership stay decoupled.
func (s *AuthService) AuthenticateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsSuspended {
		return nil, ErrAccountSuspended
	}

	return user, nil
}

// Login verifies credentials, runs the business approval gate, and only then
// mints tokens. A pending or rejected business never receives a usable
// session; a failed approval lookup fails the login rather than admitting.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.AuthenticateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.UserType == domain.UserTypeBusiness {
		status, err := s.ApprovalStatusByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrBusinessNotFound) {
			return nil, err
		}
		switch status {
		case domain.ApprovalPending:
			return nil, domain.ErrBusinessPending
		case domain.ApprovalRejected:
			return nil, domain.ErrBusinessRejected
		}
	}

	return s.generateTokens(ctx, user)
}

// IssueTokens mints an access/refresh token pair for an already-verified
// user. Callers own any authorization checks beyond the credential itself.
func (s *AuthService) IssueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	return s.generateTokens(ctx, user)
}

// ApprovalStatusByUserID looks up the approval gate for a business account.
func (s *AuthService) ApprovalStatusByUserID(ctx context.Context, userID uuid.UUID) (domain.ApprovalStatus, error) {
	business, err := s.businessRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrBusinessNotFound
		}
		return "", err
	}
	return business.ApprovalStatus, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Delete old sessions
	_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour), // 7 days
		CreatedAt:        time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		Identity:     domain.IdentityOf(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"email":     user.Email,
		"user_type": user.UserType.String(),
		"exp":       time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Logout invalidates the user's refresh sessions and tells the user's other
// connected clients that they are signed out.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.PublishAuthChange(userID, nil)
	}
	return nil
}
