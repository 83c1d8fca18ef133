package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/distribution"
	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupstore "github.com/MrJamesThe3rd/vsla/internal/group/store"
	"github.com/MrJamesThe3rd/vsla/internal/member"
	memberstore "github.com/MrJamesThe3rd/vsla/internal/member/store"
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

const selectDistributionColumns = `
	id, loan_id, group_id, member_id, member_name, amount, currency, date, notes, created_at
`

func scanDistribution(s scanner) (*distribution.Distribution, error) {
	var d distribution.Distribution

	if err := s.Scan(
		&d.ID, &d.LoanID, &d.GroupID, &d.MemberID, &d.MemberName, &d.Amount, &d.Currency, &d.Date, &d.Notes, &d.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *Store) CreateDistribution(ctx context.Context, d *distribution.Distribution) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO distributions (loan_id, group_id, member_id, member_name, amount, currency, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		d.LoanID, d.GroupID, d.MemberID, d.MemberName, d.Amount, d.Currency, d.Date, d.Notes,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating distribution: %w", err)
	}

	if err := groupstore.IncrementTotals(ctx, tx, d.GroupID, group.Totals{TotalDistributed: d.Amount}); err != nil {
		return err
	}

	if d.MemberID != nil {
		err := memberstore.IncrementTotals(ctx, tx, *d.MemberID, member.Totals{InterestEarnedTotal: d.Amount})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing distribution: %w", err)
	}

	return nil
}

func (s *Store) GetDistribution(ctx context.Context, id uuid.UUID) (*distribution.Distribution, error) {
	query := `SELECT ` + selectDistributionColumns + ` FROM distributions WHERE id = $1`

	d, err := scanDistribution(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, distribution.ErrNotFound
		}

		return nil, fmt.Errorf("getting distribution: %w", err)
	}

	return d, nil
}

func (s *Store) ListDistributions(ctx context.Context, filter distribution.ListFilter) ([]*distribution.Distribution, error) {
	query := `SELECT ` + selectDistributionColumns + ` FROM distributions WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.LoanID != nil {
		query += fmt.Sprintf(" AND loan_id = $%d", argIdx)

		args = append(args, *filter.LoanID)
		argIdx++
	}

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
		return nil, fmt.Errorf("listing distributions: %w", err)
	}
	defer rows.Close()

	distributions := []*distribution.Distribution{}

	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning distribution: %w", err)
		}

		distributions = append(distributions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating distributions: %w", err)
	}

	return distributions, nil
}
