package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"gorm.io/gorm"
)

type BusinessService struct {
	businessRepo repository.BusinessRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository) *BusinessService {
	return &BusinessService{businessRepo: businessRepo}
}

// GetByUserID returns the business record owned by the given account.
func (s *BusinessService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Business, error) {
	business, err := s.businessRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// ConsumeDuckAlert spends one promotional alert from the business's quota.
func (s *BusinessService) ConsumeDuckAlert(ctx context.Context, userID uuid.UUID) (*domain.Business, error) {
	business, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if business.DuckAlertsRemaining <= 0 {
		return nil, domain.ErrNoAlertsRemaining
	}
	business.DuckAlertsRemaining--
	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}
