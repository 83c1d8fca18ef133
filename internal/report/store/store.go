package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/vsla/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadDataset runs the per-ledger queries concurrently. Each query filters on
// the group when one is given; the date filters follow the window.
func (s *Store) LoadDataset(ctx context.Context, groupID *uuid.UUID, w report.Window) (*report.Dataset, error) {
	var ds report.Dataset

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		ds.Savings, err = s.savingsLines(egCtx, groupID, w)

		return err
	})

	eg.Go(func() error {
		var err error
		ds.SocialFunds, err = s.socialFundAmounts(egCtx, groupID, w)

		return err
	})

	eg.Go(func() error {
		var err error
		ds.Expenses, err = s.expenseLines(egCtx, groupID, w)

		return err
	})

	eg.Go(func() error {
		var err error
		ds.Collections, err = s.collectionLines(egCtx, groupID)

		return err
	})

	if groupID != nil {
		eg.Go(func() error {
			var err error
			ds.Members, err = s.members(egCtx, *groupID)

			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &ds, nil
}

type filter struct {
	where string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.where += fmt.Sprintf(" AND "+cond, len(f.args))
}

func scope(groupID *uuid.UUID, groupColumn string) *filter {
	f := &filter{where: " WHERE 1 = 1"}
	if groupID != nil {
		f.add(groupColumn+" = $%d", *groupID)
	}

	return f
}

func (s *Store) savingsLines(ctx context.Context, groupID *uuid.UUID, w report.Window) ([]report.SavingsLine, error) {
	f := scope(groupID, "group_id")
	if w.Bounded() {
		f.add("date <= $%d", w.End)
	}

	query := `SELECT member_id, transaction_type, amount, shares, date FROM savings` + f.where + ` ORDER BY date, created_at`

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("loading savings for report: %w", err)
	}
	defer rows.Close()

	var lines []report.SavingsLine

	for rows.Next() {
		var l report.SavingsLine
		if err := rows.Scan(&l.MemberID, &l.Type, &l.Amount, &l.Shares, &l.Date); err != nil {
			return nil, fmt.Errorf("scanning savings for report: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating savings for report: %w", err)
	}

	return lines, nil
}

func (s *Store) socialFundAmounts(ctx context.Context, groupID *uuid.UUID, w report.Window) ([]decimal.Decimal, error) {
	f := scope(groupID, "group_id")
	if w.Bounded() {
		f.add("date >= $%d", w.Start)
		f.add("date <= $%d", w.End)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT amount FROM social_funds`+f.where, f.args...)
	if err != nil {
		return nil, fmt.Errorf("loading social funds for report: %w", err)
	}
	defer rows.Close()

	var amounts []decimal.Decimal

	for rows.Next() {
		var a decimal.Decimal
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning social fund for report: %w", err)
		}

		amounts = append(amounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating social funds for report: %w", err)
	}

	return amounts, nil
}

func (s *Store) expenseLines(ctx context.Context, groupID *uuid.UUID, w report.Window) ([]report.ExpenseLine, error) {
	f := scope(groupID, "group_id")
	if w.Bounded() {
		f.add("date >= $%d", w.Start)
		f.add("date <= $%d", w.End)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, amount FROM expenses`+f.where, f.args...)
	if err != nil {
		return nil, fmt.Errorf("loading expenses for report: %w", err)
	}
	defer rows.Close()

	var lines []report.ExpenseLine

	for rows.Next() {
		var l report.ExpenseLine
		if err := rows.Scan(&l.Type, &l.Amount); err != nil {
			return nil, fmt.Errorf("scanning expense for report: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses for report: %w", err)
	}

	return lines, nil
}

// collectionLines returns every collection of the group's loans. The window is
// applied in memory because collections without a date still count toward an
// unbounded report.
func (s *Store) collectionLines(ctx context.Context, groupID *uuid.UUID) ([]report.CollectionLine, error) {
	f := scope(groupID, "l.group_id")

	query := `
		SELECT c.collection_date, c.interest_portion
		FROM loan_collections c
		JOIN loans l ON l.id = c.loan_id` + f.where

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("loading collections for report: %w", err)
	}
	defer rows.Close()

	var lines []report.CollectionLine

	for rows.Next() {
		var l report.CollectionLine
		if err := rows.Scan(&l.Date, &l.InterestPortion); err != nil {
			return nil, fmt.Errorf("scanning collection for report: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections for report: %w", err)
	}

	return lines, nil
}

func (s *Store) members(ctx context.Context, groupID uuid.UUID) ([]report.MemberRef, error) {
	query := `SELECT id, member_name, member_number FROM members WHERE group_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("loading members for report: %w", err)
	}
	defer rows.Close()

	refs := []report.MemberRef{}

	for rows.Next() {
		var m report.MemberRef
		if err := rows.Scan(&m.ID, &m.Name, &m.Number); err != nil {
			return nil, fmt.Errorf("scanning member for report: %w", err)
		}

		refs = append(refs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members for report: %w", err)
	}

	return refs, nil
}
