package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/expense"
	groupstore "github.com/MrJamesThe3rd/vsla/internal/group/store"
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

const selectExpenseColumns = `
	id, group_id, member_id, member_name, type, category, amount, currency, date, notes, created_at
`

func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	if err := s.Scan(
		&e.ID, &e.GroupID, &e.MemberID, &e.MemberName, &e.Type, &e.Category,
		&e.Amount, &e.Currency, &e.Date, &e.Notes, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, member_id, member_name, type, category, amount, currency, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		e.GroupID, e.MemberID, e.MemberName, e.Type, e.Category, e.Amount, e.Currency, e.Date, e.Notes,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	if err := groupstore.IncrementTotals(ctx, tx, e.GroupID, e.Delta()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE 1 = 1`

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
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*expense.Expense{}

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}
