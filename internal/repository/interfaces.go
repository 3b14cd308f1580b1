package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	List(ctx context.Context) ([]*domain.Business, error)
	CountByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	Update(ctx context.Context, location *domain.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*domain.Location, error)
	Count(ctx context.Context) (int64, error)
}

type DuckRepository interface {
	Create(ctx context.Context, duck *domain.Duck) error
	GetByCode(ctx context.Context, code string) (*domain.Duck, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Duck, error)
	Update(ctx context.Context, duck *domain.Duck) error
	Count(ctx context.Context) (int64, error)
}

type Repositories struct {
	User     UserRepository
	Session  SessionRepository
	Business BusinessRepository
	Location LocationRepository
	Duck     DuckRepository
}
