// Package user provides the user records shown and administered by AtlasERP.
package user

import (
	"strings"
	"time"
)

// Role names.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// EmailDomain is the mail domain assigned to generated users.
const EmailDomain = "atlasrep.com"

// User represents a person who can sign in to AtlasERP.
type User struct {
	// ID is a generated UUID.
	ID string `json:"id"`

	// Username is the login name.
	Username string `json:"username"`

	// Email is the user's email address.
	Email string `json:"email,omitempty"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Role is RoleAdmin or RoleUser.
	Role string `json:"role"`

	// Active marks the account as usable.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`

	// LastLoginAt is nil until the user has signed in.
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// OrganizationID optionally links the user to an organization.
	OrganizationID string `json:"organization_id,omitempty"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailFor returns the generated email address for username. The name is
// used as given.
func EmailFor(username string) string {
	return username + "@" + EmailDomain
}
