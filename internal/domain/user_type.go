package domain

// UserType classifies an account: customers play machines and redeem ducks,
// businesses run promotions, admins work the back office.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeBusiness UserType = "business"
	UserTypeAdmin    UserType = "admin"
)

// AllUserTypes contains all valid user types.
var AllUserTypes = []UserType{UserTypeCustomer, UserTypeBusiness, UserTypeAdmin}

// IsValid checks if a user type is one of the known classifications.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeCustomer, UserTypeBusiness, UserTypeAdmin:
		return true
	}
	return false
}

// Normalize maps unknown or empty classifications to customer, so fallback
// routing is defined in exactly one place.
func (t UserType) Normalize() UserType {
	if !t.IsValid() {
		return UserTypeCustomer
	}
	return t
}

// String returns the string representation of the user type.
func (t UserType) String() string {
	return string(t)
}

// Canonical home routes per user type. A role-mismatched navigation is
// corrected to the actual role's home, never answered with a 403.
const (
	SignInRoute       = "/signin"
	AdminHomeRoute    = "/dashboard/admin"
	BusinessHomeRoute = "/dashboard/business"
	CustomerHomeRoute = "/dashboard/customer"
)

// CanonicalHome returns the default landing route for the user type.
// Unknown types land on the customer dashboard.
func (t UserType) CanonicalHome() string {
	switch t {
	case UserTypeAdmin:
		return AdminHomeRoute
	case UserTypeBusiness:
		return BusinessHomeRoute
	default:
		return CustomerHomeRoute
	}
}
