package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/vsla/internal/user"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `
	id, username, email, password_hash, role, organization, branch, branch_code, created_at, updated_at
`

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	if err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Organization, &u.Branch, &u.BranchCode, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &u, nil
}

// mapEmailConflict turns a lost race on the unique email index into the same
// error the service returns when it sees the conflict first.
func mapEmailConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.ErrEmailExists
	}

	return err
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, organization, branch, branch_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Role, u.Organization, u.Branch, u.BranchCode,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", mapEmailConflict(err))
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getBy(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *Store) getBy(ctx context.Context, column string, value any) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE ` + column + ` = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, role = $3, organization = $4, branch = $5, branch_code = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.Role, u.Organization, u.Branch, u.BranchCode, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrNotFound
		}

		return fmt.Errorf("updating user: %w", mapEmailConflict(err))
	}

	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.exec(ctx, "updating password",
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, "deleting user", `DELETE FROM users WHERE id = $1`, id)
}

func (s *Store) exec(ctx context.Context, action, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return user.ErrNotFound
	}

	return nil
}

// CountAdmins is used by the seed command to decide whether an administrator
// already exists.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, user.RoleAdmin).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}

	return n, nil
}
