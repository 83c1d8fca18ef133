package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupstore "github.com/MrJamesThe3rd/vsla/internal/group/store"
	"github.com/MrJamesThe3rd/vsla/internal/member"
	memberstore "github.com/MrJamesThe3rd/vsla/internal/member/store"
	"github.com/MrJamesThe3rd/vsla/internal/socialfund"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectContributionColumns = `
	id, group_id, member_id, member_name, amount, currency, date, notes, created_at
`

func scanContribution(s scanner) (*socialfund.Contribution, error) {
	var c socialfund.Contribution

	if err := s.Scan(
		&c.ID, &c.GroupID, &c.MemberID, &c.MemberName, &c.Amount, &c.Currency, &c.Date, &c.Notes, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) CreateContribution(ctx context.Context, c *socialfund.Contribution) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO social_funds (group_id, member_id, member_name, amount, currency, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		c.GroupID, c.MemberID, c.MemberName, c.Amount, c.Currency, c.Date, c.Notes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating social fund contribution: %w", err)
	}

	if err := groupstore.IncrementTotals(ctx, tx, c.GroupID, group.Totals{TotalSocialFund: c.Amount}); err != nil {
		return err
	}

	if err := memberstore.IncrementTotals(ctx, tx, c.MemberID, member.Totals{SocialFundTotal: c.Amount}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing social fund contribution: %w", err)
	}

	return nil
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (*socialfund.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + ` FROM social_funds WHERE id = $1`

	c, err := scanContribution(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, socialfund.ErrNotFound
		}

		return nil, fmt.Errorf("getting social fund contribution: %w", err)
	}

	return c, nil
}

func (s *Store) ListContributions(ctx context.Context, filter socialfund.ListFilter) ([]*socialfund.Contribution, error) {
	query := `SELECT ` + selectContributionColumns + ` FROM social_funds WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.GroupID != nil {
		query += fmt.Sprintf(" AND group_id = $%d", argIdx)

		args = append(args, *filter.GroupID)
		argIdx++
	}

	if filter.MemberID != nil {
		query += fmt.Sprintf(" AND member_id = $%d", argIdx)

		args = append(args, *filter.MemberID)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing social fund contributions: %w", err)
	}
	defer rows.Close()

	contributions := []*socialfund.Contribution{}

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning social fund contribution: %w", err)
		}

		contributions = append(contributions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating social fund contributions: %w", err)
	}

	return contributions, nil
}
