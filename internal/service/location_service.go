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

var ErrLocationNotFound = errors.New("location not found")

type LocationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// ListActive returns the machine locations shown on the public map.
func (s *LocationService) ListActive(ctx context.Context) ([]*domain.Location, error) {
	return s.locationRepo.ListActive(ctx)
}

type LocationInput struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsActive  *bool   `json:"is_active"`
}

func (s *LocationService) Create(ctx context.Context, input LocationInput) (*domain.Location, error) {
	location := &domain.Location{
		ID:        uuid.New(),
		Name:      input.Name,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, id uuid.UUID, input LocationInput) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		location.Name = input.Name
	}
	if input.Address != "" {
		location.Address = input.Address
	}
	if input.City != "" {
		location.City = input.City
	}
	if input.State != "" {
		location.State = input.State
	}
	if input.ZipCode != "" {
		location.ZipCode = input.ZipCode
	}
	if input.Latitude != 0 {
		location.Latitude = input.Latitude
	}
	if input.Longitude != 0 {
		location.Longitude = input.Longitude
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	location.UpdatedAt = time.Now()

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locationRepo.Delete(ctx, id)
}
