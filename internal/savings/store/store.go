package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupstore "github.com/MrJamesThe3rd/vsla/internal/group/store"
	"github.com/MrJamesThe3rd/vsla/internal/member"
	memberstore "github.com/MrJamesThe3rd/vsla/internal/member/store"
	"github.com/MrJamesThe3rd/vsla/internal/savings"
)

const checkViolation = "23514"

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

const selectEntryColumns = `
	id, group_id, member_id, member_name, amount, shares, transaction_type, currency, date, notes, created_at
`

func scanEntry(s scanner) (*savings.Entry, error) {
	var e savings.Entry

	if err := s.Scan(
		&e.ID, &e.GroupID, &e.MemberID, &e.MemberName, &e.Amount, &e.Shares, &e.Type,
		&e.Currency, &e.Date, &e.Notes, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateEntry writes the ledger line and both balance increments in one
// transaction. A debit that would take the member below zero, because another
// request got there first, fails on the members table check constraints.
func (s *Store) CreateEntry(ctx context.Context, e *savings.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO savings (group_id, member_id, member_name, amount, shares, transaction_type, currency, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		e.GroupID, e.MemberID, e.MemberName, e.Amount, e.Shares, e.Type, e.Currency, e.Date, e.Notes,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating savings entry: %w", err)
	}

	amount, shares := e.Delta()

	err = groupstore.IncrementTotals(ctx, tx, e.GroupID, group.Totals{
		GroupSavings:       amount,
		TotalShares:        shares,
		MemberSavingsShare: shares,
	})
	if err != nil {
		return err
	}

	err = memberstore.IncrementTotals(ctx, tx, e.MemberID, member.Totals{
		SavingsTotal: amount,
		TotalShares:  shares,
	})
	if err != nil {
		return mapBalanceViolation(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing savings entry: %w", err)
	}

	return nil
}

func mapBalanceViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != checkViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "members_total_shares_check":
		return savings.ErrInsufficientShares
	case "members_savings_total_check":
		return savings.ErrInsufficientSavings
	}

	return err
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*savings.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM savings WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, savings.ErrNotFound
		}

		return nil, fmt.Errorf("getting savings entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter savings.ListFilter) ([]*savings.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM savings WHERE 1 = 1`

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
		return nil, fmt.Errorf("listing savings: %w", err)
	}
	defer rows.Close()

	entries := []*savings.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning savings entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating savings: %w", err)
	}

	return entries, nil
}
