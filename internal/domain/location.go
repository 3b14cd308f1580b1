package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical claw machine site.
type Location struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Address   string    `json:"address" gorm:"not null"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duck is a collectible won from a machine. Its discount code is redeemable
// at the sponsoring business.
type Duck struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code         string     `json:"code" gorm:"uniqueIndex;not null"`
	BusinessID   *uuid.UUID `json:"business_id" gorm:"type:uuid"`
	LocationID   *uuid.UUID `json:"location_id" gorm:"type:uuid"`
	OwnerID      *uuid.UUID `json:"owner_id" gorm:"type:uuid"`
	DiscountText string     `json:"discount_text"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
