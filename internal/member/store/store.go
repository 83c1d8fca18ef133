package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vsla/internal/member"
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

const selectMemberColumns = `
	id, group_id, member_name, member_image, member_age, guardian_name, phone, member_number,
	admission_date, national_id, member_signature, attendance,
	savings_total, total_shares, interest_earned_total, social_fund_total, created_at, updated_at
`

func scanMember(s scanner) (*member.Member, error) {
	var m member.Member

	var attendance []byte

	if err := s.Scan(
		&m.ID, &m.GroupID, &m.Name, &m.Image, &m.Age, &m.GuardianName, &m.Phone, &m.Number,
		&m.AdmissionDate, &m.NationalID, &m.Signature, &attendance,
		&m.SavingsTotal, &m.TotalShares, &m.InterestEarnedTotal, &m.SocialFundTotal, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Attendance = []member.Attendance{}
	if len(attendance) > 0 {
		if err := json.Unmarshal(attendance, &m.Attendance); err != nil {
			return nil, fmt.Errorf("decoding attendance: %w", err)
		}
	}

	return &m, nil
}

const insertMember = `
	INSERT INTO members (
		group_id, member_name, member_image, member_age, guardian_name, phone, member_number,
		admission_date, national_id, member_signature, attendance, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	RETURNING id, created_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryRower, m *member.Member) error {
	attendance, err := json.Marshal(m.Attendance)
	if err != nil {
		return fmt.Errorf("encoding attendance: %w", err)
	}

	return q.QueryRowContext(ctx, insertMember,
		m.GroupID, m.Name, m.Image, m.Age, m.GuardianName, m.Phone, m.Number,
		m.AdmissionDate, m.NationalID, m.Signature, attendance,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *Store) CreateMember(ctx context.Context, m *member.Member) error {
	if err := insert(ctx, s.db, m); err != nil {
		return fmt.Errorf("creating member: %w", err)
	}

	return nil
}

// CreateMembers inserts all members in a single transaction.
func (s *Store) CreateMembers(ctx context.Context, members []*member.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, m := range members {
		if err := insert(ctx, tx, m); err != nil {
			return fmt.Errorf("creating member %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing members: %w", err)
	}

	return nil
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members WHERE group_id = $1 ORDER BY member_number ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []*member.Member{}

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return members, nil
}

// UpdateMember writes profile columns only.
func (s *Store) UpdateMember(ctx context.Context, m *member.Member) error {
	attendance, err := json.Marshal(m.Attendance)
	if err != nil {
		return fmt.Errorf("encoding attendance: %w", err)
	}

	query := `
		UPDATE members
		SET member_name = $1, member_image = $2, member_age = $3, guardian_name = $4, phone = $5,
			member_number = $6, admission_date = $7, national_id = $8, member_signature = $9,
			attendance = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		m.Name, m.Image, m.Age, m.GuardianName, m.Phone,
		m.Number, m.AdmissionDate, m.NationalID, m.Signature,
		attendance, m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.ErrNotFound
		}

		return fmt.Errorf("updating member: %w", err)
	}

	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return member.ErrNotFound
	}

	return nil
}

// CountLedgerEntries counts every ledger row that references the member.
func (s *Store) CountLedgerEntries(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM savings WHERE member_id = $1) +
			(SELECT COUNT(*) FROM loans WHERE client_id = $1) +
			(SELECT COUNT(*) FROM expenses WHERE member_id = $1) +
			(SELECT COUNT(*) FROM social_funds WHERE member_id = $1) +
			(SELECT COUNT(*) FROM distributions WHERE member_id = $1)
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting ledger entries: %w", err)
	}

	return count, nil
}

// IncrementTotals adds delta to the running aggregates of a member inside tx.
func IncrementTotals(ctx context.Context, tx *sql.Tx, memberID uuid.UUID, delta member.Totals) error {
	query := `
		UPDATE members
		SET savings_total = savings_total + $1,
			total_shares = total_shares + $2,
			interest_earned_total = interest_earned_total + $3,
			social_fund_total = social_fund_total + $4
		WHERE id = $5
	`

	result, err := tx.ExecContext(ctx, query,
		delta.SavingsTotal, delta.TotalShares, delta.InterestEarnedTotal, delta.SocialFundTotal, memberID,
	)
	if err != nil {
		return fmt.Errorf("incrementing member totals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return member.ErrNotFound
	}

	return nil
}
