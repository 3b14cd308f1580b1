package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"gorm.io/gorm"
)

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *businessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).First(&business, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *domain.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

func (r *businessRepository) List(ctx context.Context) ([]*domain.Business, error) {
	var businesses []*domain.Business
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&businesses).Error
	if err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) CountByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Business{}).
		Where("approval_status = ?", status).Count(&count).Error
	return count, err
}

func (r *businessRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Business{}).Count(&count).Error
	return count, err
}
