package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the admin-controlled gate on a business partnership.
// It is independent of the owning account's ability to authenticate.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IsValid checks if an approval status is one of the known values.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// String returns the string representation of the approval status.
func (s ApprovalStatus) String() string {
	return string(s)
}

// MembershipTier is the paid plan a business signed up for.
type MembershipTier string

const (
	TierBasic  MembershipTier = "basic"
	TierTrade  MembershipTier = "trade"
	TierCustom MembershipTier = "custom"
)

// IsValid checks if a membership tier is one of the offered plans.
func (t MembershipTier) IsValid() bool {
	switch t {
	case TierBasic, TierTrade, TierCustom:
		return true
	}
	return false
}

// DuckAlertAllowance returns the yearly duck-alert quota for the tier.
func (t MembershipTier) DuckAlertAllowance() int {
	switch t {
	case TierTrade:
		return 2
	case TierCustom:
		return 4
	default:
		return 1
	}
}

type Business struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	BusinessName string `json:"business_name" gorm:"not null"`
	BusinessType string `json:"business_type"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" gorm:"not null"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`

	MembershipTier      MembershipTier `json:"membership_tier" gorm:"type:varchar(20);not null;default:'basic'"`
	MembershipStartDate *time.Time     `json:"membership_start_date"`
	MembershipEndDate   *time.Time     `json:"membership_end_date"`
	DuckAlertsRemaining int            `json:"duck_alerts_remaining" gorm:"not null;default:0"`
	IsActive            bool           `json:"is_active" gorm:"not null;default:false"`

	ApprovalStatus  ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;default:'pending'"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID     `json:"approved_by,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
