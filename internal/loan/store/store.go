package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupstore "github.com/MrJamesThe3rd/vsla/internal/group/store"
	"github.com/MrJamesThe3rd/vsla/internal/loan"
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

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectLoanColumns = `
	id, group_id, client_id, branch_name, branch_code, meeting_time, meeting_day, member_code,
	member_address, member_occupation, guarantor_name, guarantor_relationship, loan_amount_in_words,
	loan_duration_number, loan_duration_unit, purpose_of_loan, business_type,
	disbursement_date, ending_date, collection_start_date,
	weekly_installment, security_deposit, member_admission_fee,
	loan_amount, interest_rate, currency, status, loan_officer_name, total_realization,
	created_at, updated_at
`

func scanLoan(s scanner) (*loan.Loan, error) {
	var l loan.Loan

	if err := s.Scan(
		&l.ID, &l.GroupID, &l.ClientID, &l.BranchName, &l.BranchCode, &l.MeetingTime, &l.MeetingDay, &l.MemberCode,
		&l.MemberAddress, &l.MemberOccupation, &l.GuarantorName, &l.GuarantorRelationship, &l.AmountInWords,
		&l.DurationNumber, &l.DurationUnit, &l.Purpose, &l.BusinessType,
		&l.DisbursementDate, &l.EndingDate, &l.CollectionStartDate,
		&l.WeeklyInstallment, &l.SecurityDeposit, &l.AdmissionFee,
		&l.Amount, &l.InterestRate, &l.Currency, &l.Status, &l.LoanOfficerName, &l.TotalRealization,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &l, nil
}

const selectCollectionColumns = `
	id, loan_id, seq, member_name, loan_amount, weekly_amount, field_collection, advance_payment,
	field_balance, currency, collection_date, principal_portion, interest_portion, fees_portion,
	security_deposit_contribution, created_at
`

func scanCollection(s scanner) (loan.Collection, error) {
	var c loan.Collection

	err := s.Scan(
		&c.ID, &c.LoanID, &c.Seq, &c.MemberName, &c.LoanAmount, &c.WeeklyAmount, &c.FieldCollection, &c.AdvancePayment,
		&c.FieldBalance, &c.Currency, &c.CollectionDate, &c.PrincipalPortion, &c.InterestPortion, &c.FeesPortion,
		&c.SecurityDepositContribution, &c.CreatedAt,
	)

	return c, err
}

func (s *Store) CreateLoan(ctx context.Context, l *loan.Loan, delta group.Totals) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO loans (
			group_id, client_id, branch_name, branch_code, meeting_time, meeting_day, member_code,
			member_address, member_occupation, guarantor_name, guarantor_relationship, loan_amount_in_words,
			loan_duration_number, loan_duration_unit, purpose_of_loan, business_type,
			disbursement_date, ending_date, collection_start_date,
			weekly_installment, security_deposit, member_admission_fee,
			loan_amount, interest_rate, currency, status, loan_officer_name, total_realization, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, $26, $27, $28, NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		l.GroupID, l.ClientID, l.BranchName, l.BranchCode, l.MeetingTime, l.MeetingDay, l.MemberCode,
		l.MemberAddress, l.MemberOccupation, l.GuarantorName, l.GuarantorRelationship, l.AmountInWords,
		l.DurationNumber, l.DurationUnit, l.Purpose, l.BusinessType,
		l.DisbursementDate, l.EndingDate, l.CollectionStartDate,
		l.WeeklyInstallment, l.SecurityDeposit, l.AdmissionFee,
		l.Amount, l.InterestRate, l.Currency, l.Status, l.LoanOfficerName, l.TotalRealization,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating loan: %w", err)
	}

	if err := groupstore.IncrementTotals(ctx, tx, l.GroupID, delta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing loan: %w", err)
	}

	return nil
}

func getLoan(ctx context.Context, q querier, id uuid.UUID, lock bool) (*loan.Loan, error) {
	query := `SELECT ` + selectLoanColumns + ` FROM loans WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	l, err := scanLoan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, loan.ErrNotFound
		}

		return nil, fmt.Errorf("getting loan: %w", err)
	}

	l.Collections, err = listCollections(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return l, nil
}

func listCollections(ctx context.Context, q querier, loanID uuid.UUID) ([]loan.Collection, error) {
	query := `SELECT ` + selectCollectionColumns + ` FROM loan_collections WHERE loan_id = $1 ORDER BY seq ASC`

	rows, err := q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	collections := []loan.Collection{}

	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}

		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}

	return collections, nil
}

func (s *Store) GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return getLoan(ctx, s.db, id, false)
}

func (s *Store) ListCollections(ctx context.Context, loanID uuid.UUID) ([]loan.Collection, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, loanID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking loan: %w", err)
	}

	if !exists {
		return nil, loan.ErrNotFound
	}

	return listCollections(ctx, s.db, loanID)
}

func (s *Store) ListLoans(ctx context.Context, filter loan.ListFilter) ([]*loan.Loan, error) {
	query := `SELECT ` + selectLoanColumns + ` FROM loans WHERE 1 = 1`

	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND %s = $%d", clause, len(args))
	}

	if filter.GroupID != nil {
		add("group_id", *filter.GroupID)
	}

	if filter.ClientID != nil {
		add("client_id", *filter.ClientID)
	}

	if filter.BranchName != nil {
		add("branch_name", *filter.BranchName)
	}

	if filter.BranchCode != nil {
		add("branch_code", *filter.BranchCode)
	}

	if filter.Status != nil {
		add("status", *filter.Status)
	}

	if filter.Currency != nil {
		add("currency", *filter.Currency)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	loans := []*loan.Loan{}

	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}

		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loans: %w", err)
	}

	return loans, nil
}

// UpdateLoan writes the editable terms. Status, disbursement and realization
// are only written by ModifyLoan.
func (s *Store) UpdateLoan(ctx context.Context, l *loan.Loan) error {
	query := `
		UPDATE loans
		SET branch_name = $1, branch_code = $2, meeting_time = $3, meeting_day = $4, member_code = $5,
			member_address = $6, member_occupation = $7, guarantor_name = $8, guarantor_relationship = $9,
			loan_amount_in_words = $10, loan_duration_number = $11, loan_duration_unit = $12,
			purpose_of_loan = $13, business_type = $14, ending_date = $15, collection_start_date = $16,
			weekly_installment = $17, security_deposit = $18, member_admission_fee = $19,
			loan_amount = $20, interest_rate = $21, loan_officer_name = $22, updated_at = NOW()
		WHERE id = $23
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		l.BranchName, l.BranchCode, l.MeetingTime, l.MeetingDay, l.MemberCode,
		l.MemberAddress, l.MemberOccupation, l.GuarantorName, l.GuarantorRelationship,
		l.AmountInWords, l.DurationNumber, l.DurationUnit,
		l.Purpose, l.BusinessType, l.EndingDate, l.CollectionStartDate,
		l.WeeklyInstallment, l.SecurityDeposit, l.AdmissionFee,
		l.Amount, l.InterestRate, l.LoanOfficerName,
		l.ID,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return loan.ErrNotFound
		}

		return fmt.Errorf("updating loan: %w", err)
	}

	return nil
}

func (s *Store) ModifyLoan(ctx context.Context, id uuid.UUID, fn func(l *loan.Loan) (group.Totals, error)) (*loan.Loan, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	l, err := getLoan(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	existing := len(l.Collections)

	delta, err := fn(l)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE loans
		SET status = $1, disbursement_date = $2, weekly_installment = $3, total_realization = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		l.Status, l.DisbursementDate, l.WeeklyInstallment, l.TotalRealization, l.ID,
	).Scan(&l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating loan: %w", err)
	}

	for i := existing; i < len(l.Collections); i++ {
		if err := insertCollection(ctx, tx, &l.Collections[i]); err != nil {
			return nil, err
		}
	}

	if err := groupstore.IncrementTotals(ctx, tx, l.GroupID, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing loan: %w", err)
	}

	return l, nil
}

func insertCollection(ctx context.Context, tx *sql.Tx, c *loan.Collection) error {
	query := `
		INSERT INTO loan_collections (
			loan_id, seq, member_name, loan_amount, weekly_amount, field_collection, advance_payment,
			field_balance, currency, collection_date, principal_portion, interest_portion, fees_portion,
			security_deposit_contribution, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at
	`

	err := tx.QueryRowContext(ctx, query,
		c.LoanID, c.Seq, c.MemberName, c.LoanAmount, c.WeeklyAmount, c.FieldCollection, c.AdvancePayment,
		c.FieldBalance, c.Currency, c.CollectionDate, c.PrincipalPortion, c.InterestPortion, c.FeesPortion,
		c.SecurityDepositContribution,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}
