package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, role Role) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

type CreateParams struct {
	Username     string
	Email        string
	Password     string
	Role         string
	Organization string
	Branch       string
	BranchCode   string
}

type UpdateParams struct {
	Username     *string
	Email        *string
	Role         *string
	Organization *string
	Branch       *string
	BranchCode   *string
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *User
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	for _, v := range []string{
		params.Username, params.Email, params.Password, params.Organization, params.Branch, params.BranchCode,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, ErrMissingFields
		}
	}

	if len(params.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	role, err := ParseRole(params.Role)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(params.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     strings.TrimSpace(params.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Organization: strings.TrimSpace(params.Organization),
		Branch:       strings.TrimSpace(params.Branch),
		BranchCode:   strings.TrimSpace(params.BranchCode),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Register is self-service sign-up. Accounts created this way are always
// staff; other roles are granted by an administrator.
func (s *Service) Register(ctx context.Context, params CreateParams) (*User, error) {
	params.Role = string(RoleStaff)
	return s.Create(ctx, params)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: u}, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// Update edits the profile fields. Passwords change only through
// ChangePassword.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil {
		email := normalizeEmail(*params.Email)
		if email == "" {
			return nil, ErrMissingFields
		}

		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
				return nil, err
			}
		}

		u.Email = email
	}

	if params.Role != nil {
		role, err := ParseRole(*params.Role)
		if err != nil {
			return nil, err
		}

		u.Role = role
	}

	for _, f := range []struct {
		dst *string
		v   *string
	}{
		{&u.Username, params.Username},
		{&u.Organization, params.Organization},
		{&u.Branch, params.Branch},
		{&u.BranchCode, params.BranchCode},
	} {
		if f.v == nil {
			continue
		}

		v := strings.TrimSpace(*f.v)
		if v == "" {
			return nil, ErrMissingFields
		}

		*f.dst = v
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	if len(newPassword) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	if _, err := s.repo.GetUser(ctx, id); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)

	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ErrEmailExists
	}

	return nil
}
