package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"gorm.io/gorm"
)

// AdminService backs the back-office panel: user and business management
// plus system statistics. Every operation here sits behind the admin gate.
type AdminService struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	sessionRepo  repository.SessionRepository
	locationRepo repository.LocationRepository
	duckRepo     repository.DuckRepository
	events       AuthEvents
}

func NewAdminService(repos *repository.Repositories) *AdminService {
	return &AdminService{
		userRepo:     repos.User,
		businessRepo: repos.Business,
		sessionRepo:  repos.Session,
		locationRepo: repos.Location,
		duckRepo:     repos.Duck,
	}
}

// SetEvents wires an auth-change publisher. Optional; nil means no fan-out.
func (s *AdminService) SetEvents(events AuthEvents) {
	s.events = events
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *AdminService) ListBusinesses(ctx context.Context) ([]*domain.Business, error) {
	return s.businessRepo.List(ctx)
}

// ApproveBusiness activates a pending partnership.
func (s *AdminService) ApproveBusiness(ctx context.Context, businessID, adminID uuid.UUID) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}

	now := time.Now()
	business.ApprovalStatus = domain.ApprovalApproved
	business.IsActive = true
	business.ApprovedAt = &now
	business.ApprovedBy = &adminID
	business.RejectionReason = ""
	business.UpdatedAt = now

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

// RejectBusiness declines a partnership application.
func (s *AdminService) RejectBusiness(ctx context.Context, businessID uuid.UUID, reason string) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}

	business.ApprovalStatus = domain.ApprovalRejected
	business.IsActive = false
	business.RejectionReason = reason
	business.UpdatedAt = time.Now()

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

// SuspendUser locks the account, revokes its refresh sessions, and notifies
// the user's connected clients that they are signed out.
func (s *AdminService) SuspendUser(ctx context.Context, userID uuid.UUID, reason string, adminID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	now := time.Now()
	user.IsSuspended = true
	user.SuspensionReason = reason
	user.SuspendedAt = &now
	user.SuspendedBy = &adminID
	user.UpdatedAt = now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.PublishAuthChange(userID, nil)
	}
	return nil
}

func (s *AdminService) UnsuspendUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsSuspended = false
	user.SuspensionReason = ""
	user.SuspendedAt = nil
	user.SuspendedBy = nil
	user.UpdatedAt = time.Now()

	return s.userRepo.Update(ctx, user)
}

// UpdateUserRole reclassifies an account. The user's connected clients get a
// fresh identity notification so they re-fetch the profile; role changes
// must never ride on a cached classification.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID uuid.UUID, newType domain.UserType) (*domain.User, error) {
	if !newType.IsValid() {
		return nil, domain.ErrInvalidUserType
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.UserType = newType
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PublishAuthChange(userID, domain.IdentityOf(user))
	}
	return user, nil
}

// SystemStats is the admin dashboard summary.
type SystemStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalBusinesses    int64 `json:"total_businesses"`
	ApprovedBusinesses int64 `json:"approved_businesses"`
	PendingBusinesses  int64 `json:"pending_businesses"`
	TotalLocations     int64 `json:"total_locations"`
	TotalDucks         int64 `json:"total_ducks"`
}

func (s *AdminService) Stats(ctx context.Context) (*SystemStats, error) {
	stats := &SystemStats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBusinesses, err = s.businessRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ApprovedBusinesses, err = s.businessRepo.CountByApprovalStatus(ctx, domain.ApprovalApproved); err != nil {
		return nil, err
	}
	if stats.PendingBusinesses, err = s.businessRepo.CountByApprovalStatus(ctx, domain.ApprovalPending); err != nil {
		return nil, err
	}
	if stats.TotalLocations, err = s.locationRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDucks, err = s.duckRepo.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
