package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/user"
)

// userResponse never carries the password hash.
type userResponse struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         user.Role  `json:"role"`
	Organization string     `json:"organization"`
	Branch       string     `json:"branch"`
	BranchCode   string     `json:"branchCode"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Organization: u.Organization,
		Branch:       u.Branch,
		BranchCode:   u.BranchCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toResponseList(users []*user.User) []userResponse {
	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	return resp
}
