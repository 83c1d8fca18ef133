package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/vsla/internal/reconcile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ledger writers update the groups and members rows inside their own
// transactions, so holding EXCLUSIVE locks on both tables makes them wait
// until the rebuilt totals are committed. Reads are not blocked.
const lockTotals = `LOCK TABLE groups, members IN EXCLUSIVE MODE`

const rebuildGroups = `
	WITH expected AS (
		SELECT g.id,
			COALESCE((SELECT SUM(CASE WHEN s.transaction_type = 'debit' THEN -s.amount ELSE s.amount END)
				FROM savings s WHERE s.group_id = g.id), 0) AS group_savings,
			COALESCE((SELECT SUM(CASE WHEN s.transaction_type = 'debit' THEN -s.shares ELSE s.shares END)
				FROM savings s WHERE s.group_id = g.id), 0) AS total_shares,
			COALESCE((SELECT SUM(f.amount) FROM social_funds f WHERE f.group_id = g.id), 0) AS total_social_fund,
			COALESCE((SELECT SUM(e.amount) FROM expenses e WHERE e.group_id = g.id AND e.type <> 'fine'), 0) AS total_expenses,
			COALESCE((SELECT SUM(e.amount) FROM expenses e WHERE e.group_id = g.id AND e.type = 'fine'), 0) AS total_fines,
			COALESCE((SELECT SUM(l.loan_amount) FROM loans l
				WHERE l.group_id = g.id AND l.status IN ('active', 'paid', 'defaulted')), 0) AS total_loan_amount,
			(SELECT COUNT(*) FROM loans l WHERE l.group_id = g.id) AS total_loans,
			COALESCE((SELECT SUM(d.amount) FROM distributions d WHERE d.group_id = g.id), 0) AS total_distributed
		FROM groups g
	)
	UPDATE groups g
	SET group_savings = e.group_savings,
		total_shares = e.total_shares,
		member_savings_share = e.total_shares,
		total_social_fund = e.total_social_fund,
		total_expenses = e.total_expenses,
		total_fines = e.total_fines,
		total_loan_amount = e.total_loan_amount,
		total_loans = e.total_loans,
		total_distributed = e.total_distributed,
		updated_at = NOW()
	FROM expected e
	WHERE g.id = e.id
		AND (g.group_savings, g.total_shares, g.member_savings_share, g.total_social_fund, g.total_expenses,
			g.total_fines, g.total_loan_amount, g.total_loans, g.total_distributed)
		IS DISTINCT FROM
			(e.group_savings, e.total_shares, e.total_shares, e.total_social_fund, e.total_expenses,
			e.total_fines, e.total_loan_amount, e.total_loans, e.total_distributed)
`

const rebuildMembers = `
	WITH expected AS (
		SELECT m.id,
			COALESCE((SELECT SUM(CASE WHEN s.transaction_type = 'debit' THEN -s.amount ELSE s.amount END)
				FROM savings s WHERE s.member_id = m.id), 0) AS savings_total,
			COALESCE((SELECT SUM(CASE WHEN s.transaction_type = 'debit' THEN -s.shares ELSE s.shares END)
				FROM savings s WHERE s.member_id = m.id), 0) AS total_shares,
			COALESCE((SELECT SUM(d.amount) FROM distributions d WHERE d.member_id = m.id), 0) AS interest_earned_total,
			COALESCE((SELECT SUM(f.amount) FROM social_funds f WHERE f.member_id = m.id), 0) AS social_fund_total
		FROM members m
	)
	UPDATE members m
	SET savings_total = e.savings_total,
		total_shares = e.total_shares,
		interest_earned_total = e.interest_earned_total,
		social_fund_total = e.social_fund_total,
		updated_at = NOW()
	FROM expected e
	WHERE m.id = e.id
		AND (m.savings_total, m.total_shares, m.interest_earned_total, m.social_fund_total)
		IS DISTINCT FROM
			(e.savings_total, e.total_shares, e.interest_earned_total, e.social_fund_total)
`

// Rebuild recomputes every total from the ledger in one transaction and
// reports how many rows changed.
func (s *Store) Rebuild(ctx context.Context) (reconcile.Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockTotals); err != nil {
		return reconcile.Result{}, fmt.Errorf("locking totals: %w", err)
	}

	groups, err := execCount(ctx, tx, rebuildGroups)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("rebuilding group totals: %w", err)
	}

	members, err := execCount(ctx, tx, rebuildMembers)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("rebuilding member totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return reconcile.Result{}, fmt.Errorf("committing reconcile: %w", err)
	}

	return reconcile.Result{Groups: groups, Members: members}, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string) (int64, error) {
	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
