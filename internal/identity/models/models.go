// Package models contains pure domain models for the identity core: entities
// that should not depend on transport or HTTP-specific concerns.
package models

import (
	"time"

	dErrors "bookline/pkg/domain-errors"
)

// UserType governs the post-auth landing area for an account.
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeBusiness   UserType = "business"
	UserTypeEnterprise UserType = "enterprise"
)

// IsValid reports whether the user type is one of the known values.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeIndividual, UserTypeBusiness, UserTypeEnterprise:
		return true
	}
	return false
}

// IsBusiness reports whether the account lands on the business dashboard.
func (t UserType) IsBusiness() bool {
	return t == UserTypeBusiness || t == UserTypeEnterprise
}

// User represents an account in the directory. The struct is serialized as the
// session's user snapshot, so fields carry JSON tags.
// Invariant: ID is immutable once created; email is unique across the directory
// (enforced by the identity service, not here).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UserType  UserType  `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser constructs a User and enforces basic invariants.
func NewUser(id, email, firstName, lastName, phone string, userType UserType, now time.Time) (*User, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user email cannot be empty")
	}
	if !userType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid user type: "+string(userType))
	}
	return &User{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SignInData is the transient credential input for sign-in.
// The password is never persisted anywhere.
type SignInData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpData is the transient input for account creation.
type SignUpData struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	UserType  UserType `json:"userType"`
}

// AuthResult is returned by successful sign-in, sign-up, and OAuth sign-in.
// The refresh token stays inside the session store and is never returned to callers.
type AuthResult struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}
