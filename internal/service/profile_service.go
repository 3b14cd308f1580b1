package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

var zipCodePattern = regexp.MustCompile(`^\d{5}$`)

type ProfileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// UpdateProfileInput contains the onboarding form fields. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	ZipCode     *string `json:"zip_code"`
}

// CompletionStatus is the pair of profile-quality signals consumed by the
// onboarding nudges.
type CompletionStatus struct {
	Complete bool `json:"complete"`
	Percent  int  `json:"percent"`
}

// GetProfile returns the domain user record for an identity.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the submitted fields and returns the updated record.
// The access gate reads the new user_type-independent fields on the next
// navigation; nothing is cached here.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ZipCode != nil {
		if *input.ZipCode != "" && !zipCodePattern.MatchString(*input.ZipCode) {
			return nil, domain.ErrInvalidZipCode
		}
		user.ZipCode = *input.ZipCode
	}
	if input.DateOfBirth != nil {
		if *input.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *input.DateOfBirth)
			if err != nil {
				return nil, err
			}
			d := datatypes.Date(parsed)
			user.DateOfBirth = &d
		}
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Completion returns the profile-quality signals for a user.
func (s *ProfileService) Completion(ctx context.Context, userID uuid.UUID) (*CompletionStatus, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CompletionStatus{
		Complete: user.ProfileComplete(),
		Percent:  user.CompletionPercent(),
	}, nil
}
