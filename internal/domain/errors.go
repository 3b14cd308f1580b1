package domain

import "errors"

// Profile validation errors
var (
	ErrInvalidUserType = errors.New("invalid user type")
	ErrInvalidZipCode  = errors.New("zip code must be 5 digits")
)

// Business errors
var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrBusinessPending       = errors.New("business partnership is pending approval")
	ErrBusinessRejected      = errors.New("business partnership application was not approved")
	ErrInvalidTier           = errors.New("invalid membership tier")
	ErrInvalidApprovalStatus = errors.New("invalid approval status")
	ErrNoAlertsRemaining     = errors.New("no duck alerts remaining")
)
