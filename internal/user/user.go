// Package user manages staff accounts and their credentials.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleStaff       Role = "staff"
	RoleLoanOfficer Role = "loan_officer"
)

var (
	ErrNotFound            = apperr.NotFound("user not found")
	ErrMissingFields       = apperr.Validation("username, email, password, organization, branch, and branchCode are required")
	ErrEmailExists         = apperr.Rejected("user with this email already exists")
	ErrInvalidRole         = apperr.Validation("invalid role value")
	ErrPasswordRequired    = apperr.Validation("newPassword is required")
	ErrCredentialsRequired = apperr.Validation("email and password are required")
	ErrInvalidCredentials  = apperr.Validation("invalid credentials")
	ErrPasswordTooLong     = apperr.Validation("password must be at most 72 bytes")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ParseRole accepts a role name case-insensitively. An empty name is staff.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleStaff, nil
	}

	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleStaff, RoleLoanOfficer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Organization string
	Branch       string
	BranchCode   string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
