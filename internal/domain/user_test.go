package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestUser_ProfileComplete(t *testing.T) {
	dob := datatypes.Date(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		user *User
		want bool
	}{
		{
			name: "nil user",
			user: nil,
			want: false,
		},
		{
			name: "empty profile",
			user: &User{},
			want: false,
		},
		{
			name: "all contact fields filled",
			user: &User{FirstName: "Pat", LastName: "Lee", Phone: "5551234567", ZipCode: "62701"},
			want: true,
		},
		{
			name: "date of birth does not count toward completeness",
			user: &User{FirstName: "Pat", LastName: "Lee", Phone: "5551234567", DateOfBirth: &dob},
			want: false,
		},
		{
			name: "one field missing",
			user: &User{FirstName: "Pat", LastName: "Lee", ZipCode: "62701"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.ProfileComplete())
		})
	}
}

func TestUser_CompletionPercent(t *testing.T) {
	dob := datatypes.Date(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		user *User
		want int
	}{
		{name: "nil user", user: nil, want: 0},
		{name: "empty profile", user: &User{}, want: 0},
		{name: "one of five", user: &User{FirstName: "Pat"}, want: 20},
		{name: "three of five", user: &User{FirstName: "Pat", LastName: "Lee", Phone: "5551234567"}, want: 60},
		{
			name: "all five",
			user: &User{FirstName: "Pat", LastName: "Lee", Phone: "5551234567", ZipCode: "62701", DateOfBirth: &dob},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CompletionPercent())
		})
	}
}

func TestUserType_Normalize(t *testing.T) {
	assert.Equal(t, UserTypeCustomer, UserType("").Normalize())
	assert.Equal(t, UserTypeCustomer, UserType("superuser").Normalize())
	assert.Equal(t, UserTypeBusiness, UserTypeBusiness.Normalize())
	assert.Equal(t, UserTypeAdmin, UserTypeAdmin.Normalize())
}

func TestUserType_CanonicalHome(t *testing.T) {
	assert.Equal(t, AdminHomeRoute, UserTypeAdmin.CanonicalHome())
	assert.Equal(t, BusinessHomeRoute, UserTypeBusiness.CanonicalHome())
	assert.Equal(t, CustomerHomeRoute, UserTypeCustomer.CanonicalHome())
	assert.Equal(t, CustomerHomeRoute, UserType("unknown").CanonicalHome())
}

func TestMembershipTier_DuckAlertAllowance(t *testing.T) {
	assert.Equal(t, 1, TierBasic.DuckAlertAllowance())
	assert.Equal(t, 2, TierTrade.DuckAlertAllowance())
	assert.Equal(t, 4, TierCustom.DuckAlertAllowance())
}

func TestIdentityOf(t *testing.T) {
	assert.Nil(t, IdentityOf(nil))

	u := &User{Email: "a@example.com"}
	identity := IdentityOf(u)
	assert.Equal(t, u.ID, identity.ID)
	assert.Equal(t, u.Email, identity.Email)
}
