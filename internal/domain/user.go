package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string          `json:"-" gorm:"not null"`
	UserType     UserType        `json:"user_type" gorm:"type:varchar(20);not null;default:'customer'"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Phone        string          `json:"phone"`
	DateOfBirth  *datatypes.Date `json:"date_of_birth"`
	ZipCode      string          `json:"zip_code"`

	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`

	IsSuspended      bool       `json:"is_suspended" gorm:"not null;default:false"`
	SuspensionReason string     `json:"suspension_reason,omitempty"`
	SuspendedAt      *time.Time `json:"suspended_at,omitempty"`
	SuspendedBy      *uuid.UUID `json:"suspended_by,omitempty" gorm:"type:uuid"`

	// Raw registration metadata as submitted at sign-up, kept for auditing.
	SignupMetadata datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// completionFieldCount is the size of the fixed field set tracked by
// CompletionPercent. DateOfBirth counts toward the percentage but not
// toward ProfileComplete.
const completionFieldCount = 5

// ProfileComplete reports whether the contact fields required for
// redeeming ducks are all filled in.
func (u *User) ProfileComplete() bool {
	if u == nil {
		return false
	}
	return u.FirstName != "" && u.LastName != "" && u.Phone != "" && u.ZipCode != ""
}

// CompletionPercent returns how much of the profile has been filled in,
// rounded to the nearest whole percent. A nil profile is 0.
func (u *User) CompletionPercent() int {
	if u == nil {
		return 0
	}
	filled := 0
	for _, set := range []bool{
		u.FirstName != "",
		u.LastName != "",
		u.Phone != "",
		u.ZipCode != "",
		u.DateOfBirth != nil,
	} {
		if set {
			filled++
		}
	}
	return (filled*100 + completionFieldCount/2) / completionFieldCount
}

// Identity is the minimal proof of authentication handed out by the auth
// layer: who authenticated, independent of their domain profile.
type Identity struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// IdentityOf derives the auth identity for a stored user.
func IdentityOf(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
	}
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
