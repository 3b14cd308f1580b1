package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"gorm.io/gorm"
)

type duckRepository struct {
	db *gorm.DB
}

func NewDuckRepository(db *gorm.DB) *duckRepository {
	return &duckRepository{db: db}
}

func (r *duckRepository) Create(ctx context.Context, duck *domain.Duck) error {
	return r.db.WithContext(ctx).Create(duck).Error
}

func (r *duckRepository) GetByCode(ctx context.Context, code string) (*domain.Duck, error) {
	var duck domain.Duck
	err := r.db.WithContext(ctx).First(&duck, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &duck, nil
}

func (r *duckRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Duck, error) {
	var ducks []*domain.Duck
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&ducks).Error
	if err != nil {
		return nil, err
	}
	return ducks, nil
}

func (r *duckRepository) Update(ctx context.Context, duck *domain.Duck) error {
	return r.db.WithContext(ctx).Save(duck).Error
}

func (r *duckRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Duck{}).Count(&count).Error
	return count, err
}
