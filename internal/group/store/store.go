package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/group"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectGroupColumns = `
	id, group_name, group_code, branch_name, organization_name, meeting_day, meeting_time,
	loan_officer, community, status, total_group_count, savings_duration_months, leadership,
	savings_amount_per_share, social_fund_amount, meeting_fine_amount,
	group_savings, total_shares, member_savings_share, total_social_fund, total_expenses,
	total_fines, total_loan_amount, total_loans, total_distributed, created_at, updated_at
`

func scanGroup(s scanner) (*group.Group, error) {
	var g group.Group

	var leadership []byte

	if err := s.Scan(
		&g.ID, &g.Name, &g.Code, &g.BranchName, &g.OrganizationName, &g.MeetingDay, &g.MeetingTime,
		&g.LoanOfficer, &g.Community, &g.Status, &g.TotalGroupCount, &g.SavingsDurationMonths, &leadership,
		&g.SavingsAmountPerShare, &g.SocialFundAmount, &g.MeetingFineAmount,
		&g.GroupSavings, &g.TotalShares, &g.MemberSavingsShare, &g.TotalSocialFund, &g.TotalExpenses,
		&g.TotalFines, &g.TotalLoanAmount, &g.TotalLoans, &g.TotalDistributed, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Leadership = group.Leadership{}
	if len(leadership) > 0 {
		if err := json.Unmarshal(leadership, &g.Leadership); err != nil {
			return nil, fmt.Errorf("decoding leadership: %w", err)
		}
	}

	return &g, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *group.Group) error {
	leadership, err := json.Marshal(g.Leadership)
	if err != nil {
		return fmt.Errorf("encoding leadership: %w", err)
	}

	query := `
		INSERT INTO groups (
			group_name, group_code, branch_name, organization_name, meeting_day, meeting_time,
			loan_officer, community, status, total_group_count, savings_duration_months, leadership,
			savings_amount_per_share, social_fund_amount, meeting_fine_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		g.Name, g.Code, g.BranchName, g.OrganizationName, g.MeetingDay, g.MeetingTime,
		g.LoanOfficer, g.Community, g.Status, g.TotalGroupCount, g.SavingsDurationMonths, leadership,
		g.SavingsAmountPerShare, g.SocialFundAmount, g.MeetingFineAmount,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	return nil
}

func (s *Store) GetGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM groups WHERE id = $1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	return g, nil
}

// FirstGroup returns the oldest group, which is the active one in single-group mode.
func (s *Store) FirstGroup(ctx context.Context) (*group.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM groups ORDER BY created_at ASC, id ASC LIMIT 1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting first group: %w", err)
	}

	return g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*group.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM groups ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	groups := []*group.Group{}

	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	return groups, nil
}

// UpdateGroup writes profile and configuration columns. Aggregates are only
// changed through IncrementTotals.
func (s *Store) UpdateGroup(ctx context.Context, g *group.Group) error {
	leadership, err := json.Marshal(g.Leadership)
	if err != nil {
		return fmt.Errorf("encoding leadership: %w", err)
	}

	query := `
		UPDATE groups
		SET group_name = $1, group_code = $2, branch_name = $3, organization_name = $4,
			meeting_day = $5, meeting_time = $6, loan_officer = $7, community = $8, status = $9,
			total_group_count = $10, savings_duration_months = $11, leadership = $12,
			savings_amount_per_share = $13, social_fund_amount = $14, meeting_fine_amount = $15,
			updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		g.Name, g.Code, g.BranchName, g.OrganizationName,
		g.MeetingDay, g.MeetingTime, g.LoanOfficer, g.Community, g.Status,
		g.TotalGroupCount, g.SavingsDurationMonths, leadership,
		g.SavingsAmountPerShare, g.SocialFundAmount, g.MeetingFineAmount,
		g.ID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return group.ErrNotFound
		}

		return fmt.Errorf("updating group: %w", err)
	}

	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return group.ErrNotFound
	}

	return nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE group_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking group code: %w", err)
	}

	return exists, nil
}

func (s *Store) CountMembers(ctx context.Context, id uuid.UUID) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE group_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}

	return count, nil
}

// IncrementTotals adds delta to the running aggregates of a group. It is meant
// to run in the same transaction as the ledger entry that caused it.
func IncrementTotals(ctx context.Context, tx *sql.Tx, groupID uuid.UUID, delta group.Totals) error {
	query := `
		UPDATE groups
		SET group_savings = group_savings + $1,
			total_shares = total_shares + $2,
			member_savings_share = member_savings_share + $3,
			total_social_fund = total_social_fund + $4,
			total_expenses = total_expenses + $5,
			total_fines = total_fines + $6,
			total_loan_amount = total_loan_amount + $7,
			total_loans = total_loans + $8,
			total_distributed = total_distributed + $9
		WHERE id = $10
	`

	result, err := tx.ExecContext(ctx, query,
		delta.GroupSavings, delta.TotalShares, delta.MemberSavingsShare, delta.TotalSocialFund,
		delta.TotalExpenses, delta.TotalFines, delta.TotalLoanAmount, delta.TotalLoans, delta.TotalDistributed,
		groupID,
	)
	if err != nil {
		return fmt.Errorf("incrementing group totals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return group.ErrNotFound
	}

	return nil
}
